package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tealives/tealives-client/internal/common"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRefreshFailed = errors.New("token refresh failed")
)

// APIError is a non-2xx response of the REST API. Code and Detail come from
// the JSON error body when the backend sends one.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
	Body       []byte
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}

	var payload struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Code = payload.Code
		e.Detail = payload.Detail
	}
	return e
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets callers match auth failures with errors.Is(err, ErrUnauthorized).
func (e *APIError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// TokenInvalid reports whether the response is the recoverable
// "access token expired or rejected" 401.
func (e *APIError) TokenInvalid() bool {
	return e.StatusCode == http.StatusUnauthorized && e.Code == common.TokenInvalidCode
}
