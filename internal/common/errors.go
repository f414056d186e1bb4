// Package common defines shared constants and sentinel errors used across
// client and dev-server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// ErrAuth covers bad or expired credentials and refresh failures.
	ErrAuth = errors.New("unauthorized")

	// ErrValidation is a field-level error the user can fix in place.
	ErrValidation = errors.New("validation failed")

	// ErrNetwork is a transient transport or server-side failure.
	ErrNetwork = errors.New("network error")

	// ErrNotFound is returned for missing resources (HTTP 404).
	ErrNotFound = errors.New("not found")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
