package ranking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate = errors.New("invalid date, want YYYY-MM-DD")
	// ErrSuperseded is returned to a Load caller whose response arrived after
	// a load for a different date was requested. Store state is untouched.
	ErrSuperseded = errors.New("response superseded by a newer load")
)

// NetworkError means the request failed before any response arrived.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response with a non-success status.
type HTTPError struct {
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request to %s returned status %d", e.URL, e.Status)
}

// DecodeError means the body was not valid JSON or not a list of entries.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding rankings: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
