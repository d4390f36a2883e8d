package padel

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedResponse is wrapped when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response body")

	// ErrEmptyResponse is returned when the API answers with a JSON null.
	ErrEmptyResponse = errors.New("empty response body")
)

// APIError represents a failed padel API operation.
type APIError struct {
	// Op is the operation that failed (e.g., "list_clubs")
	Op string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("padel %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int

	// Body holds the start of the response body for diagnostics.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable reports whether the status is a transient gateway failure.
func (e *StatusError) Retryable() bool {
	return retryableStatus(e.StatusCode)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
