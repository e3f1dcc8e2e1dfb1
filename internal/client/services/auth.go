// Package services contains the application services of the Tealives client.
// This file defines the authentication service: login, logout and restoring
// the session from the persisted token at start.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tealives/tealives-client/internal/client/client"
	"github.com/tealives/tealives-client/internal/client/session"
	"github.com/tealives/tealives-client/internal/common"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for an access token, persist it and mirror
//     it in the session. The refresh cookie stays in the client's jar.
//   - Logout: forget the token, the session and every cookie.
//   - Restore: load a previously persisted token into the session.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
}

// authService is the concrete AuthService backed by the API client, the
// persistent token store and the in-memory session.
type authService struct {
	client  client.Client
	tokens  session.TokenStore
	session *session.Session
}

// NewAuthService constructs an AuthService.
func NewAuthService(c client.Client, tokens session.TokenStore, s *session.Session) AuthService {
	return &authService{client: c, tokens: tokens, session: s}
}

// Login wipes password once the request has been sent, whatever the outcome.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.tokens.SetToken(ctx, token); err != nil {
		return fmt.Errorf("saving token error: %w", err)
	}
	a.session.SetToken(token)
	return nil
}

// Logout clears every piece of auth state even if one of the steps fails;
// the errors are joined.
func (a *authService) Logout(ctx context.Context) error {
	a.session.Clear()

	var errs []error
	if err := a.tokens.ClearToken(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.client.ResetCredentials(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Restore reports whether a stored token was found.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return false, err
	}
	a.session.SetToken(token)
	return token != "", nil
}
