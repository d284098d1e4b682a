// Package backend is the HTTP client for the news backend API.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"newsfeed/internal/observability/metrics"
	"newsfeed/internal/resilience/circuitbreaker"
	"newsfeed/internal/resilience/retry"
)

const defaultMaxBodySize = 8 << 20

// ErrBodyTooLarge is returned when a page exceeds Config.MaxBodySize.
var ErrBodyTooLarge = errors.New("backend response too large")

// Config configures a Client.
type Config struct {
	Name        string        // Source label for metrics and logs
	BaseURL     string        // e.g. https://api.example.com/v2
	Timeout     time.Duration // Per-attempt timeout
	UserAgent   string
	MaxBodySize int64
	PageParam   string // Query parameter carrying the page number, "page" when empty
}

// Client fetches raw page bodies. Each request goes through the retry loop
// and, inside it, the circuit breaker.
type Client struct {
	cfg            Config
	base           *url.URL
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewClient creates a Client. A nil httpClient uses a client with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https: %q", cfg.BaseURL)
	}
	if cfg.Name == "" {
		cfg.Name = "backend"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "newsfeed/1.0"
	}
	if cfg.PageParam == "" {
		cfg.PageParam = "page"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		cfg:            cfg,
		base:           base,
		client:         httpClient,
		circuitBreaker: circuitbreaker.New(circuitbreaker.BackendConfig()),
		retryConfig:    retry.BackendConfig(),
	}, nil
}

// WithRetryConfig replaces the retry configuration. Used by tests and the CLI.
func (c *Client) WithRetryConfig(cfg retry.Config) *Client {
	c.retryConfig = cfg
	return c
}

// FetchPage fetches page of the listing at path, relative to the base URL.
// Pages start at 1; a page below 1 omits the page parameter.
func (c *Client) FetchPage(ctx context.Context, path string, page int) ([]byte, error) {
	u := c.base.JoinPath(path)
	if page >= 1 {
		q := u.Query()
		q.Set(c.cfg.PageParam, strconv.Itoa(page))
		u.RawQuery = q.Encode()
	}
	return c.FetchURL(ctx, u.String())
}

// FetchURL fetches an absolute URL through the same retry and breaker.
func (c *Client) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()

	body, err := retry.Do(ctx, c.retryConfig, func() ([]byte, error) {
		return circuitbreaker.Run(c.circuitBreaker, func() ([]byte, error) {
			return c.doFetch(ctx, rawURL)
		})
	})
	if err != nil {
		errType := classify(err)
		metrics.RecordBackendFetchError(c.cfg.Name, errType)
		if errType == "circuit_open" {
			slog.Warn("backend circuit breaker open, request rejected",
				slog.String("service", c.cfg.Name),
				slog.String("url", rawURL),
				slog.String("state", c.circuitBreaker.State().String()))
		}
		return nil, err
	}

	metrics.RecordBackendFetch(c.cfg.Name, time.Since(start))
	return body, nil
}

// IsOpen reports whether the circuit breaker currently rejects requests.
func (c *Client) IsOpen() bool {
	return c.circuitBreaker.IsOpen()
}

func (c *Client) doFetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
			RetryAfter: retry.ParseRetryAfter(resp.Header, time.Now()),
		}
	}

	// One extra byte tells a body at the limit apart from a larger one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, c.cfg.MaxBodySize)
	}
	return body, nil
}

func classify(err error) string {
	var httpErr *retry.HTTPError
	var netErr net.Error
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.As(err, &httpErr):
		return "http_" + strconv.Itoa(httpErr.StatusCode/100) + "xx"
	case errors.Is(err, ErrBodyTooLarge):
		return "too_large"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case strings.Contains(err.Error(), "HTTP request failed"):
		return "network"
	default:
		return "other"
	}
}
