package platform

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError indicates that the session token was rejected by the API.
// It is returned when a 401 response is received.
type AuthError struct {
	BaseURL string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.BaseURL, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf(
			"unexpected status %d on %s %s: %s",
			e.StatusCode, e.Method, e.Path, e.Message,
		)
	}
	return fmt.Sprintf(
		"unexpected status %d on %s %s",
		e.StatusCode, e.Method, e.Path,
	)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is
// not a StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// isForbiddenOrMissing reports whether err means the endpoint is not
// available to this user.
func isForbiddenOrMissing(err error) bool {
	code := StatusCode(err)
	return code == http.StatusForbidden || code == http.StatusNotFound
}
