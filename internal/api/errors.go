package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects an
	// email/password pair during login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated is returned when a request requires a session and
	// none is available, including after a failed refresh attempt.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrRefreshFailed is returned when the refresh token is rejected.
	// This is terminal: the session must be re-established via login.
	ErrRefreshFailed = errors.New("session refresh failed")

	// ErrForbidden is returned on role mismatches (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned for missing resources (HTTP 404).
	ErrNotFound = errors.New("not found")
)

// StatusError carries a non-2xx response from the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Code)
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
