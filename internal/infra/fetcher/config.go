package fetcher

import (
	"fmt"
	"time"

	pkgconfig "newsfeed/pkg/config"
)

// Config controls article text enrichment.
type Config struct {
	// Enabled turns enrichment on. When false the backend text is served as is.
	Enabled bool

	// Threshold is the article text length below which the page is fetched.
	Threshold int

	// Timeout bounds a single page request.
	Timeout time.Duration

	// Parallelism bounds concurrent page fetches within one feed page.
	Parallelism int

	// MaxBodySize is the largest HTML body read, in bytes.
	MaxBodySize int64

	// MaxRedirects is the longest redirect chain followed.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs that resolve to loopback, private or
	// link-local addresses, including redirect targets.
	DenyPrivateIPs bool

	// UserAgent identifies the fetcher to article sites.
	UserAgent string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		Threshold:      400,
		Timeout:        8 * time.Second,
		Parallelism:    6,
		MaxBodySize:    5 << 20,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "newsfeed/1.0 (+content)",
	}
}

// Validate rejects out-of-range values.
func (c Config) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Parallelism < 1 || c.Parallelism > 50 {
		return fmt.Errorf("parallelism must be between 1 and 50, got %d", c.Parallelism)
	}
	if c.MaxBodySize < 1<<10 || c.MaxBodySize > 100<<20 {
		return fmt.Errorf("max body size must be between 1KB and 100MB, got %d", c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv reads CONTENT_FETCH_* variables over DefaultConfig.
// Unparseable values fall back to the default with a warning; out-of-range
// values fail validation.
func LoadConfigFromEnv() (Config, error) {
	def := DefaultConfig()
	cfg := Config{
		Enabled:        pkgconfig.GetEnvBool("CONTENT_FETCH_ENABLED", def.Enabled),
		Threshold:      pkgconfig.GetEnvInt("CONTENT_FETCH_THRESHOLD", def.Threshold),
		Timeout:        pkgconfig.GetEnvDuration("CONTENT_FETCH_TIMEOUT", def.Timeout),
		Parallelism:    pkgconfig.GetEnvInt("CONTENT_FETCH_PARALLELISM", def.Parallelism),
		MaxBodySize:    int64(pkgconfig.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", int(def.MaxBodySize))),
		MaxRedirects:   pkgconfig.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", def.MaxRedirects),
		DenyPrivateIPs: pkgconfig.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", def.DenyPrivateIPs),
		UserAgent:      pkgconfig.GetEnvString("CONTENT_FETCH_USER_AGENT", def.UserAgent),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("content fetch config: %w", err)
	}
	return cfg, nil
}
