package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RateLimitError is a 429 from the webhook.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is a non-429 4xx from the webhook. It is not retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string { return e.Message }

// ServerError is a 5xx from the webhook.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

func isRetryable(err error) bool {
	var clientErr *ClientError
	return !errors.As(err, &clientErr)
}

// webhook posts JSON payloads with rate limiting and a short retry loop.
type webhook struct {
	name        string
	url         string
	client      *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
}

func newWebhook(name string, cfg Config, rps float64, burst int) *webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &webhook{
		name:        name,
		url:         cfg.WebhookURL,
		client:      &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
		maxAttempts: 2,
		baseDelay:   5 * time.Second,
	}
}

// send delivers payload, honoring 429 retry hints and backing off on 5xx and
// network errors. 4xx responses fail immediately.
func (w *webhook) send(ctx context.Context, source string, payload any) error {
	requestID := uuid.New().String()
	logger := slog.With(
		slog.String("notifier", w.name),
		slog.String("request_id", requestID),
		slog.String("source", source))

	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		lastErr = w.post(ctx, body)
		if lastErr == nil {
			logger.Info("notification sent", slog.Int("attempt", attempt))
			return nil
		}

		var delay time.Duration
		var rateErr *RateLimitError
		switch {
		case errors.As(lastErr, &rateErr):
			delay = rateErr.RetryAfter
		case !isRetryable(lastErr):
			logger.Error("notification rejected", slog.Any("error", lastErr))
			return lastErr
		default:
			delay = w.baseDelay * time.Duration(attempt)
		}
		if attempt == w.maxAttempts {
			break
		}

		logger.Warn("notification failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("notification aborted: %w", ctx.Err())
		}
	}
	return fmt.Errorf("%s notification failed after %d attempts: %w", w.name, w.maxAttempts, lastErr)
}

func (w *webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp, respBody)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s client error %d: %s", w.name, resp.StatusCode, respBody),
		}
	default:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s server error %d: %s", w.name, resp.StatusCode, respBody),
		}
	}
}

// retryAfter reads the retry hint from a Discord style JSON body or the
// Retry-After header. The default is 5s.
func retryAfter(resp *http.Response, body []byte) time.Duration {
	var hint struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &hint); err == nil && hint.RetryAfter > 0 {
		return time.Duration(hint.RetryAfter * float64(time.Second))
	}
	if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 5 * time.Second
}

// truncate cuts s to at most n bytes, ending with "..." when cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	const suffix = "..."
	return s[:max(n-len(suffix), 0)] + suffix
}
