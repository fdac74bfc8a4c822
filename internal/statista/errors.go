package statista

import (
	"errors"
	"fmt"
)

// ErrInvalidAPIKey is returned when the search API rejects the configured key (HTTP 401).
var ErrInvalidAPIKey = errors.New("Invalid API Key")

// NetworkError reports any other non-success HTTP status.
type NetworkError struct {
	StatusCode int
	URL        string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network response was not ok: %s returned status %d", e.URL, e.StatusCode)
}

// DecodeError reports a response body that could not be turned into items.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
