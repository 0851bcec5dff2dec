package kinopoisk

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid kinopoisk configuration")
	// ErrInvalidResponse indicates a response that could not be turned into a movie
	ErrInvalidResponse = errors.New("invalid movie data in response")
	// ErrInvalidID indicates a movie id that is not positive
	ErrInvalidID = errors.New("invalid movie id")
)

// APIError represents a kinopoisk API error
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("kinopoisk API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsServerError checks if the error is a 5xx response
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode <= 599
}
