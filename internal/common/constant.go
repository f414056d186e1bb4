// Package common contains shared constants and sentinel errors used across
// Mazury client components.
package common

const (
	// AuthorizationHeaderName carries the bearer access token on outbound
	// requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the authorization header.
	BearerPrefix = "Bearer "

	// SignatureHeaderName carries the wallet signature of a signed request body.
	SignatureHeaderName = "X-Signature"
)
