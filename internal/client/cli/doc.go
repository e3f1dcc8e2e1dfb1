// Package cli provides the interactive Tealives command-line client.
//
// It wires configuration, local storage, the authenticated API client, the
// city cache and an interactive REPL. Typical flow: restore the saved session,
// seed the city list from the local cache, refresh it in the background and
// execute user commands.
//
// Key features:
//   - Login / Logout / WhoAmI
//   - Cities: the supported cities, detected city first
//   - Get: an authenticated GET of any API path, printed as JSON
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// The App is also the client's LoginRedirector: when a token refresh fails
// it drops the session and asks the user to log in again.
package cli
