package common

import (
	"errors"
	"slices"
	"strings"
	"unicode"
)

// NotFoundMarker is the status marker searched for in error messages that did
// not keep the ErrNotFound sentinel in their chain.
const NotFoundMarker = "404"

// IsNotFound reports whether err represents a missing resource, either by
// sentinel or by the 404 marker standing as its own token in the message.
// Digits inside an address or path segment do not count.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	tokens := strings.FieldsFunc(err.Error(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return slices.Contains(tokens, NotFoundMarker)
}

// Describe turns an error into the message shown to the user by the
// top-level fallback. Auth and network failures are matched before the
// not-found check; everything else falls back to a generic failure with the
// underlying reason.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return "Session expired, please log in again"
	case errors.Is(err, ErrNetwork):
		return "Something went wrong, please try again later"
	case IsNotFound(err):
		return "Not found: the requested page or profile does not exist"
	case errors.Is(err, ErrValidation):
		return err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}
