package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/tealives/tealives-client/internal/client/session"
	"github.com/tealives/tealives-client/internal/common"
	"github.com/tealives/tealives-client/internal/logging"
)

const refreshPath = "/token/refresh/"

// DefaultRefreshTimeout bounds a refresh shared by several requests. Such a
// refresh does not follow any single caller's context.
const DefaultRefreshTimeout = 30 * time.Second

// LoginRedirector sends the user back to the login entry point after the
// session could not be recovered.
type LoginRedirector interface {
	RedirectToLogin(ctx context.Context)
}

// APIClient is the authenticated HTTP client of the Tealives REST API.
//
// Every request carries the stored access token as a bearer credential.
// A 401 with code "token_not_valid" triggers one cookie-based refresh and a
// single replay of the original request; if the refresh fails the token is
// cleared and the LoginRedirector is invoked.
type APIClient struct {
	baseURL string
	http    *http.Client
	jar     *credentialJar
	tokens  session.TokenStore
	log     logging.Logger

	onTokenRefreshed func(token string)
	redirector       LoginRedirector

	singleFlight   bool
	refreshTimeout time.Duration
	refreshGroup   singleflight.Group
}

type Option func(*APIClient)

// WithTokenRefreshedHandler registers the one observer notified
// synchronously with the new token after each successful refresh.
func WithTokenRefreshedHandler(fn func(token string)) Option {
	return func(c *APIClient) { c.onTokenRefreshed = fn }
}

func WithLoginRedirector(r LoginRedirector) Option {
	return func(c *APIClient) { c.redirector = r }
}

// WithSingleFlightRefresh makes concurrent 401 handlers share one in-flight
// refresh call instead of each issuing their own.
func WithSingleFlightRefresh() Option {
	return func(c *APIClient) { c.singleFlight = true }
}

// WithRefreshTimeout bounds a shared refresh. Only used together with
// WithSingleFlightRefresh.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *APIClient) { c.refreshTimeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *APIClient) { c.log = l }
}

// WithTransport replaces the underlying round tripper. The cookie jar is
// kept.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *APIClient) { c.http.Transport = rt }
}

func New(baseURL string, tokens session.TokenStore, opts ...Option) (*APIClient, error) {
	jar, err := newCredentialJar()
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		jar:     jar,
		tokens:  tokens,
		log:     logging.NewDiscardLogger(),

		refreshTimeout: DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *APIClient) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Do sends req and decodes a successful JSON response into out (which may
// be nil). Non-2xx responses are returned as *APIError, transport failures
// wrap ErrUnavailable. After a failed refresh the refresh error is returned.
func (c *APIClient) Do(ctx context.Context, req *Request, out any) error {
	return c.dispatch(ctx, &pendingRequest{Request: req}, out)
}

func (c *APIClient) dispatch(ctx context.Context, p *pendingRequest, out any) error {
	err := c.send(ctx, p, out)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.TokenInvalid() || p.alreadyRetried {
		return err
	}

	p.alreadyRetried = true

	token, err := c.refresh(ctx)
	if err != nil {
		return err
	}

	p.token = token
	return c.dispatch(ctx, p, out)
}

func (c *APIClient) send(ctx context.Context, p *pendingRequest, out any) error {
	var body io.Reader
	if p.Body != nil {
		b, err := json.Marshal(p.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, p.Method, c.url(p.Path), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range p.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)

	token := p.token
	if token == "" {
		token = c.storedToken(ctx)
	}
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	log := c.log.With("request_id", requestID, "method", p.Method, "path", p.Path)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Error(ctx, "request failed", "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(ctx, "reading response failed", "error", err)
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	log.Debug(ctx, "response received", "status", resp.StatusCode, "retry", p.alreadyRetried)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// storedToken reads the token store. A read failure is logged and the
// request goes out unauthenticated.
func (c *APIClient) storedToken(ctx context.Context) string {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Error(ctx, "reading access token failed", "error", err)
		return ""
	}
	return token
}

// refresh obtains a new access token. A failed refresh expires the session
// exactly once, however many requests were waiting for it. A caller whose
// own context ends first gets its context error and the session is kept.
func (c *APIClient) refresh(ctx context.Context) (string, error) {
	if !c.singleFlight {
		token, err := c.doRefresh(ctx)
		if err == nil {
			return token, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.log.Debug(ctx, "token refresh abandoned", "error", ctxErr)
			return "", fmt.Errorf("token refresh abandoned: %w", ctxErr)
		}
		c.expireSession(ctx, err)
		return "", err
	}

	ch := c.refreshGroup.DoChan("refresh", func() (any, error) {
		detached := context.WithoutCancel(ctx)
		rctx, cancel := context.WithTimeout(detached, c.refreshTimeout)
		defer cancel()

		token, err := c.doRefresh(rctx)
		if err != nil {
			// rctx may be past its deadline; clearing the store must still work.
			c.expireSession(detached, err)
			return "", err
		}
		return token, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.log.Debug(ctx, "joined in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		c.log.Debug(ctx, "stopped waiting for token refresh", "error", ctx.Err())
		return "", fmt.Errorf("token refresh abandoned: %w", ctx.Err())
	}
}

// doRefresh posts an empty body to the refresh endpoint. The refresh cookie
// is attached by the jar; no Authorization header is sent.
func (c *APIClient) doRefresh(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(refreshPath), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrRefreshFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, newAPIError(resp.StatusCode, data))
	}

	var payload struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrRefreshFailed, err)
	}
	if payload.Access == "" {
		return "", fmt.Errorf("%w: response has no access token", ErrRefreshFailed)
	}

	if err := c.tokens.SetToken(ctx, payload.Access); err != nil {
		c.log.Error(ctx, "persisting refreshed token failed", "error", err)
	}
	if c.onTokenRefreshed != nil {
		c.onTokenRefreshed(payload.Access)
	}

	c.log.Info(ctx, "access token refreshed")
	return payload.Access, nil
}

func (c *APIClient) expireSession(ctx context.Context, cause error) {
	c.log.Warn(ctx, "token refresh failed, logging out", "error", cause)
	if err := c.tokens.ClearToken(ctx); err != nil {
		c.log.Error(ctx, "clearing access token failed", "error", err)
	}
	if c.redirector != nil {
		c.redirector.RedirectToLogin(ctx)
	}
}
