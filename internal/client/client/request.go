package client

import "net/http"

// Request describes one outgoing API call. Path is relative to the client's
// base URL. A non-nil Body is sent as JSON.
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// pendingRequest threads a Request through dispatch together with its retry
// state, so the caller's Request is never mutated.
type pendingRequest struct {
	*Request

	// alreadyRetried is set once a refresh was attempted for this request.
	alreadyRetried bool
	// token overrides the stored token after a refresh.
	token string
}
