package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"newsfeed/internal/resilience/circuitbreaker"
	"newsfeed/internal/resilience/retry"
	"newsfeed/internal/usecase/ad"
)

const maxRetryAfter = 30 * time.Second

// Config configures an HTTP reporter.
type Config struct {
	Endpoint          string        // Collector URL receiving one JSON event per POST
	APIKey            string        // Sent as a bearer token when set
	Timeout           time.Duration // Per-request timeout
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns the collector defaults without an endpoint.
func DefaultConfig() Config {
	return Config{
		Timeout:           5 * time.Second,
		RequestsPerSecond: 20,
		Burst:             50,
	}
}

// payload is the collector wire format. EventID lets the collector drop
// duplicates delivered by retries.
type payload struct {
	EventID string `json:"event_id"`
	ad.Event
}

// HTTP posts ad events to a collector with rate limiting, retry and a
// circuit breaker.
type HTTP struct {
	config         Config
	client         *http.Client
	limiter        *RateLimiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewHTTP creates an HTTP reporter.
func NewHTTP(cfg Config) *HTTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &HTTP{
		config:         cfg,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ReportConfig()),
		retryConfig:    retry.ReportConfig(),
	}
}

// Report delivers ev. Every retry of one call carries the same event id.
func (h *HTTP) Report(ctx context.Context, ev ad.Event) error {
	if h.config.Endpoint == "" {
		return ErrDisabled
	}

	body, err := json.Marshal(payload{EventID: uuid.NewString(), Event: ev})
	if err != nil {
		return fmt.Errorf("marshal ad event: %w", err)
	}

	if err := h.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	err = retry.WithBackoff(ctx, h.retryConfig, func() error {
		_, err := circuitbreaker.Run(h.circuitBreaker, func() (interface{}, error) {
			return nil, h.send(ctx, body)
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("report %s %s: %w", ev.Type, ev.InstanceID, err)
	}

	slog.Debug("ad event delivered",
		slog.String("event", string(ev.Type)),
		slog.String("instance_id", ev.InstanceID))
	return nil
}

func (h *HTTP) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := retryAfter(resp)
		slog.Warn("collector rate limit hit, backing off", slog.Duration("retry_after", wait))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("backoff canceled: %w", ctx.Err())
		}
		return &RateLimitError{RetryAfter: wait}
	default:
		return &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(msg)}
	}
}

// retryAfter reads the Retry-After header in seconds, defaulting to one
// second and capped at maxRetryAfter.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return time.Second
	}
	if d := time.Duration(secs) * time.Second; d < maxRetryAfter {
		return d
	}
	return maxRetryAfter
}

// IsOpen reports whether the collector's circuit breaker rejects requests.
func (h *HTTP) IsOpen() bool {
	return h.circuitBreaker.IsOpen()
}
