// ABOUTME: Error taxonomy for the authenticated request pipeline
// ABOUTME: Sentinel errors for refresh failures plus typed HTTP errors

package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoRefreshToken means no refresh token is held; the session cannot
	// be recovered and a new login is required.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrRefreshFailed means the backend rejected the refresh token or the
	// refresh call itself errored. Terminal for the current session.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// IsUnauthorized reports whether err is an HTTP 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
