package client

import (
	"context"
	"fmt"
	"net/http"
)

// Client is the transport-agnostic contract of the Tealives API used by the
// services and the CLI.
type Client interface {
	Login(ctx context.Context, username string, password []byte) (string, error)
	Cities(ctx context.Context) ([]string, error)
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Do(ctx context.Context, req *Request, out any) error
	ResetCredentials() error
}

var _ Client = (*APIClient)(nil)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access string `json:"access"`
}

// Login exchanges credentials for an access token. The backend also sets the
// refresh cookie, which stays in the client's jar.
func (c *APIClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	var resp tokenResponse
	err := c.Post(ctx, "/token/", loginRequest{Username: username, Password: string(password)}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", fmt.Errorf("login: response has no access token")
	}
	return resp.Access, nil
}

// Cities returns the supported city names as sent by the backend.
func (c *APIClient) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	if err := c.Get(ctx, "/cities/", &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *APIClient) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path}, out)
}

func (c *APIClient) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// ResetCredentials drops every cookie, including the refresh credential.
func (c *APIClient) ResetCredentials() error {
	if err := c.jar.reset(); err != nil {
		return fmt.Errorf("reset cookie jar: %w", err)
	}
	return nil
}
