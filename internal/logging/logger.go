// Package logging is the structured-logging seam of the client. Components
// take a Logger and default to NewDiscardLogger; cmd/client installs a text
// logger on stderr.
package logging

import "context"

// Logger logs with key-value pairs:
//
//	log.Warn(ctx, "token refresh failed", "path", p.Path, "error", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record, e.g. the
	// request id of one API call.
	With(args ...any) Logger
}
