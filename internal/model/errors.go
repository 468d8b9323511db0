package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNetworkFailure marks a request that could not complete: connectivity,
	// timeout or a non-2xx status.
	ErrNetworkFailure = errors.New("network failure")

	// ErrMalformedResponse marks a payload that is neither a job array nor an
	// object carrying a "jobs" array.
	ErrMalformedResponse = errors.New("malformed response")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNetworkFailure) match any HTTP status failure.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNetworkFailure
}
