// Package geo resolves the user's coarse city from their IP address through
// a third-party lookup service.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrNoCity = errors.New("geolocation response has no city")

// DefaultTimeout bounds a lookup when no http.Client is supplied.
const DefaultTimeout = 5 * time.Second

// IPLocator queries a keyless IP geolocation endpoint answering with a JSON
// object that has a "city" field (ipapi.co and compatible services).
type IPLocator struct {
	url  string
	http *http.Client
}

// NewIPLocator uses httpClient for lookups, or a client limited to
// DefaultTimeout when it is nil.
func NewIPLocator(url string, httpClient *http.Client) *IPLocator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &IPLocator{url: url, http: httpClient}
}

// City returns the detected city name, lowercased and trimmed.
func (l *IPLocator) City(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return "", fmt.Errorf("build geolocation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("geolocation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geolocation request: unexpected status %s", resp.Status)
	}

	var payload struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode geolocation response: %w", err)
	}

	city := strings.ToLower(strings.TrimSpace(payload.City))
	if city == "" {
		return "", ErrNoCity
	}
	return city, nil
}
