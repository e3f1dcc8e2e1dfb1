package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/tealives/tealives-client/internal/client/client"
	"github.com/tealives/tealives-client/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and authenticates against the API.
// The password is wiped before returning. Errors are reported to the user
// and returned.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		switch {
		case errors.Is(err, client.ErrUnavailable):
			printlnFn("Server unavailable, try again later")
		case errors.Is(err, client.ErrUnauthorized):
			printlnFn("Login unsuccessful: wrong username or password")
		default:
			printlnFn("Login unsuccessful:", err.Error())
		}
		return err
	}

	a.loginRequired.Store(false)
	a.log.Info(ctx, "logged in", "user", userName)
	printlnFn("Login successful")
	return nil
}

// Logout forgets the token, the session and the refresh cookie.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout incomplete", "error", err)
		printlnFn("Logout incomplete:", err.Error())
		return err
	}
	printlnFn("Logged out")
	return nil
}

// WhoAmI prints what the current token says about the user.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}

	info, ok := a.session.Info()
	if !ok {
		printlnFn("Logged in")
		return nil
	}
	if info.UserID != "" {
		printlnFn("User:", info.UserID)
	}
	if !info.ExpiresAt.IsZero() {
		printlnFn("Token expires:", info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// RedirectToLogin is called by the API client after a failed token refresh.
// The token store has already been cleared.
func (a *App) RedirectToLogin(ctx context.Context) {
	a.session.Clear()
	a.loginRequired.Store(true)
	a.log.Warn(ctx, "session expired", "login_route", a.config.LoginRoute)
	printlnFn("Your session has expired. Please log in again (" + a.config.LoginRoute + ").")
}
