// Package client talks to the Mazury REST backend.
//
// # Overview
//
// The package provides:
//  1. A transport contract for the session layer (see the Client interface):
//     VerifySIWE, GetProfile, UpdateProfile, Validate and Ping.
//  2. HTTPClient, a JSON client that injects the stored access token as a
//     bearer Authorization header and, on a 401 caused by an expired access
//     token, exchanges the refresh token for a new access token, stores it
//     and re-issues the request exactly once.
//
// # Error Handling
//
// Non-2xx responses are returned as *HTTPError, which unwraps to the
// sentinels in internal/common (ErrAuth, ErrNotFound, ErrValidation,
// ErrNetwork). Transport failures wrap common.ErrNetwork. A failed refresh
// is reported as common.ErrAuth and replaces the original 401.
//
// # Concurrency
//
// HTTPClient is safe for concurrent use. Each request carries its own
// "retried" flag, so concurrent 401s refresh independently unless
// WithSingleFlightRefresh is set.
package client
