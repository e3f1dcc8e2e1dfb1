package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tealives/tealives-client/internal/client/client"
)

// ShowCities prints the current city list. The detected city, if supported,
// comes first.
func (a *App) ShowCities(ctx context.Context) error {
	list := a.cities.Cities()
	if len(list) == 0 {
		printlnFn("No cities loaded yet")
		return nil
	}
	for i, c := range list {
		printlnFn(fmt.Sprintf("%3d. %s", i+1, c))
	}
	return nil
}

// Get fetches path from the API and prints the JSON response indented.
func (a *App) Get(ctx context.Context, path string) error {
	var raw json.RawMessage
	if err := a.api.Get(ctx, path, &raw); err != nil {
		var apiErr *client.APIError
		switch {
		case errors.Is(err, client.ErrRefreshFailed):
			// RedirectToLogin already told the user.
		case errors.As(err, &apiErr):
			printlnFn("Request failed:", apiErr.Error())
		case errors.Is(err, client.ErrUnavailable):
			printlnFn("Server unavailable, try again later")
		default:
			printlnFn("Request failed:", err.Error())
		}
		return err
	}

	if len(raw) == 0 {
		printlnFn("(empty response)")
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		printlnFn(string(raw))
		return nil
	}
	printlnFn(buf.String())
	return nil
}
