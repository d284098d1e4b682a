package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"newsfeed/internal/resilience/circuitbreaker"
	"newsfeed/internal/resilience/retry"
	"newsfeed/internal/usecase/feed"
)

// ReadabilityFetcher implements feed.ContentFetcher with go-readability.
// It is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// NewReadabilityFetcher creates a fetcher whose client validates every
// redirect target.
func NewReadabilityFetcher(cfg Config) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		config:         cfg,
	}
	f.client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: f.checkRedirect,
	}
	return f
}

func (f *ReadabilityFetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= f.config.MaxRedirects {
		return fmt.Errorf("%w: %d redirects", feed.ErrTooManyRedirects, len(via))
	}
	if err := validateURL(req.Context(), req.URL.String(), f.config.DenyPrivateIPs); err != nil {
		return fmt.Errorf("redirect target: %w", err)
	}
	return nil
}

// FetchContent returns the readable text of the page at rawURL.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, rawURL string) (string, error) {
	if err := validateURL(ctx, rawURL, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}
	return circuitbreaker.Run(f.circuitBreaker, func() (string, error) {
		return f.doFetch(ctx, rawURL)
	})
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, rawURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", feed.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: exceeded %v", feed.ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && (errors.Is(err, feed.ErrTooManyRedirects) ||
			errors.Is(err, feed.ErrPrivateIP) || errors.Is(err, feed.ErrInvalidURL)) {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if int64(len(html)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: limit %d bytes", feed.ErrBodyTooLarge, f.config.MaxBodySize)
	}

	pageURL := resp.Request.URL
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", feed.ErrReadabilityFailed, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		if article.Content == "" {
			return "", fmt.Errorf("%w: no readable content", feed.ErrReadabilityFailed)
		}
		slog.Debug("readability returned markup only",
			slog.String("url", rawURL),
			slog.Int("content_length", len(article.Content)))
		return article.Content, nil
	}
	return text, nil
}
