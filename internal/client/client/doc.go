// Package client contains the HTTP building blocks of the Tealives client.
//
// # Overview
//
// The package provides:
//  1. The Client contract used by services: Login, Cities and generic
//     Get/Post/Do calls against the REST API.
//  2. APIClient, a net/http implementation that attaches the stored access
//     token, transparently refreshes it once on a "token_not_valid" 401 via
//     the refresh cookie, replays the request, and on refresh failure clears
//     the token and redirects to login.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Sentinel errors for errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrRefreshFailed. HTTP failures are *APIError values (errors.As).
//
// # Concurrency
//
// APIClient is safe for concurrent use. Concurrent 401s refresh
// independently unless WithSingleFlightRefresh is set.
package client
