// Package reporter delivers ad lifecycle events to the analytics collector.
package reporter

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"newsfeed/internal/resilience/retry"
)

// RateLimitError is a 429 from the collector.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("collector rate limit exceeded (retry after %v)", e.RetryAfter)
}

// Unwrap exposes the status so retry.IsRetryable treats it as transient.
func (e *RateLimitError) Unwrap() error {
	return &retry.HTTPError{StatusCode: http.StatusTooManyRequests, Message: "rate limited"}
}

// ErrDisabled is returned by an HTTP reporter without an endpoint.
var ErrDisabled = errors.New("reporter disabled")
