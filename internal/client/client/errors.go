package client

import (
	"fmt"
	"net/http"

	"github.com/mazury/mazury-client/internal/common"
)

// HTTPError is a non-2xx response. It unwraps to the common sentinel for its
// status so callers can match with errors.Is.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	return statusSentinel(e.Status)
}

func statusSentinel(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return common.ErrAuth
	case status == http.StatusNotFound:
		return common.ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return common.ErrValidation
	case status >= 500, status == http.StatusTooManyRequests:
		return common.ErrNetwork
	default:
		return nil
	}
}
