package http

import (
	"context"
	"log/slog"
	"time"

	"newsfeed/pkg/config"
)

// RateLimitConfig configures the inbound per-client limiter.
type RateLimitConfig struct {
	Enabled         bool
	RequestsPerSec  float64
	Burst           int
	TrustProxy      bool
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
}

// DefaultCleanupInterval is used when RATELIMIT_CLEANUP_INTERVAL is unset.
const DefaultCleanupInterval = 5 * time.Minute

// LoadRateLimitConfigFromEnv reads RATELIMIT_* variables. Invalid values fall
// back to defaults with a warning.
func LoadRateLimitConfigFromEnv() RateLimitConfig {
	return RateLimitConfig{
		Enabled:         config.GetEnvBool("RATELIMIT_ENABLED", true),
		RequestsPerSec:  float64(config.GetEnvInt("RATELIMIT_RPS", 20)),
		Burst:           config.GetEnvInt("RATELIMIT_BURST", 40),
		TrustProxy:      config.GetEnvBool("RATELIMIT_TRUST_PROXY", false),
		CleanupInterval: config.GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", DefaultCleanupInterval),
		IdleTimeout:     config.GetEnvDuration("RATELIMIT_IDLE_TIMEOUT", 10*time.Minute),
	}
}

// StartRateLimitCleanup drops idle clients from limiter every interval until
// ctx is done. It blocks; run it in its own goroutine.
func StartRateLimitCleanup(ctx context.Context, limiter *RateLimiter, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started",
		slog.Duration("interval", interval),
		slog.Duration("idle_timeout", idle))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return
		case <-ticker.C:
			removed := limiter.Cleanup(idle)
			slog.Debug("rate limit cleanup completed",
				slog.Int("removed", removed),
				slog.Int("active", limiter.Len()))
		}
	}
}
