// Package retry retries transient failures of outbound calls with jittered
// exponential backoff. A server's Retry-After hint, carried on HTTPError,
// stretches the next delay.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "retry_attempts_total",
	Help: "Retried operation attempts by operation and outcome",
}, []string{"operation", "outcome"}) // outcome: success, retry, abort, exhausted

// Config is a backoff profile.
type Config struct {
	Name           string // metrics label, "default" when empty
	MaxAttempts    int    // total calls, including the first
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64 // 0..1 of the delay added at random
}

// BackendConfig is for news backend pages. A reader is waiting, so retries
// stay short.
func BackendConfig() Config {
	return Config{Name: "backend", MaxAttempts: 3, InitialDelay: 300 * time.Millisecond,
		MaxDelay: 3 * time.Second, Multiplier: 2, JitterFraction: 0.2}
}

// FeedFetchConfig is for external RSS and Atom feeds.
func FeedFetchConfig() Config {
	return Config{Name: "feed_fetch", MaxAttempts: 4, InitialDelay: time.Second,
		MaxDelay: 15 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// ReportConfig is for ad event delivery to the collector.
func ReportConfig() Config {
	return Config{Name: "report", MaxAttempts: 3, InitialDelay: 500 * time.Millisecond,
		MaxDelay: 5 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// DBConfig is for the ad event store: quick retries over connection blips.
func DBConfig() Config {
	return Config{Name: "db", MaxAttempts: 3, InitialDelay: 100 * time.Millisecond,
		MaxDelay: time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// WithBackoff calls fn until it succeeds, returns a non-retryable error, or
// MaxAttempts calls have failed. Cancelling ctx stops the wait between calls.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	op := cfg.Name
	if op == "" {
		op = "default"
	}
	attempts := max(cfg.MaxAttempts, 1)
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			attemptsTotal.WithLabelValues(op, "success").Inc()
			if attempt > 1 {
				slog.Info("operation succeeded after retry",
					slog.String("operation", op),
					slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(lastErr) {
			attemptsTotal.WithLabelValues(op, "abort").Inc()
			slog.Debug("non-retryable error",
				slog.String("operation", op),
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			return lastErr
		}
		if attempt == attempts {
			break
		}
		attemptsTotal.WithLabelValues(op, "retry").Inc()

		wait := addJitter(delay, cfg.JitterFraction)
		var httpErr *HTTPError
		if errors.As(lastErr, &httpErr) && httpErr.RetryAfter > wait {
			wait = min(httpErr.RetryAfter, max(cfg.MaxDelay, wait))
		}
		slog.Warn("operation failed, retrying",
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", wait),
			slog.Any("error", lastErr))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}

	attemptsTotal.WithLabelValues(op, "exhausted").Inc()
	return fmt.Errorf("max retry attempts (%d) exceeded: %w", attempts, lastErr)
}

// Do is WithBackoff for functions that return a value. The zero value is
// returned on failure.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var out T
	err := WithBackoff(ctx, cfg, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// IsRetryable reports whether err is transient: network timeouts, refused or
// reset connections, and HTTP 408, 429 and 5xx. Cancellation and an open
// circuit breaker are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		code := httpErr.StatusCode
		return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
	}
	return false
}

// HTTPError is a non-success HTTP response.
type HTTPError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration // from the Retry-After header, zero when absent
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// ParseRetryAfter reads a Retry-After header given in seconds or as an HTTP
// date. It returns zero for a missing or unparsable value.
func ParseRetryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(t.Sub(now), 0)
	}
	return 0
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	return d + time.Duration(rand.Float64()*float64(d)*fraction) // #nosec G404 -- jitter only
}
