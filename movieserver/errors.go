package movieserver

import (
	"errors"
	"fmt"
)

// ErrAuthRejected indicates the server refused the supplied credentials.
var ErrAuthRejected = errors.New("authentication rejected")

// APIError carries an unexpected response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

// IsUnauthorized reports whether the response was an authorization
// rejection.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
