// Package common contains shared constants used across the Tealives client
// components.
package common

// HTTP header names set on outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// TokenInvalidCode is the error code the backend puts in a 401 body when the
// access token is expired or otherwise rejected. Only 401s carrying this code
// are recoverable by a token refresh.
const TokenInvalidCode = "token_not_valid"

// Keys of the local metadata store.
const (
	AccessTokenKey  = "access_token"
	CitiesKey       = "cities"
	CitiesExpiryKey = "cities_expiry"
)
