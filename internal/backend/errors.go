package backend

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx answer from the café backend. Message is whatever the
// backend put in its "message" field, possibly empty.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: cafe api returned status %d", e.Op, e.Status)
}

// MessageOr returns the backend's human-readable message carried by err, or
// fallback when err carries none (transport failures, bare status codes).
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
