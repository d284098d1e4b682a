// Package config loads the configuration of the newsfeed binaries: the API
// service settings from the environment and the source catalogue from YAML.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	pkgconfig "newsfeed/pkg/config"
)

// APIConfig holds the settings of cmd/api.
type APIConfig struct {
	Server   ServerConfig
	Backend  BackendConfig
	Reporter ReporterConfig
	Ads      AdsConfig

	// DatabaseDSN enables the SQL ad event sink and the stats endpoint when set.
	DatabaseDSN string

	// SourcesFile is the optional YAML catalogue; without it only path
	// requests are served.
	SourcesFile string
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration // Per-request handler deadline
	ShutdownTimeout time.Duration
}

// BackendConfig points at the news backend.
type BackendConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MaxBodySize int64
	PageParam   string
}

// ReporterConfig configures the HTTP ad event collector. An empty Endpoint
// disables HTTP reporting.
type ReporterConfig struct {
	Endpoint          string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// AdsConfig controls the ad session registry.
type AdsConfig struct {
	SweepInterval time.Duration
	MaxAge        time.Duration // Sessions older than this are released
}

// DefaultAPIConfig returns the defaults. BaseURL has no default.
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Backend: BackendConfig{
			Timeout:     10 * time.Second,
			MaxBodySize: 8 << 20,
			PageParam:   "page",
		},
		Reporter: ReporterConfig{
			Timeout:           5 * time.Second,
			RequestsPerSecond: 20,
			Burst:             50,
		},
		Ads: AdsConfig{
			SweepInterval: time.Minute,
			MaxAge:        30 * time.Minute,
		},
	}
}

// LoadAPIConfig reads the API configuration from the environment and
// validates it.
//
// Environment variables:
//   - API_ADDR, API_READ_TIMEOUT, API_WRITE_TIMEOUT, API_REQUEST_TIMEOUT, API_SHUTDOWN_TIMEOUT
//   - BACKEND_BASE_URL (required), BACKEND_TIMEOUT, BACKEND_MAX_BODY_SIZE, BACKEND_PAGE_PARAM
//   - AD_REPORT_ENDPOINT, AD_REPORT_API_KEY, AD_REPORT_TIMEOUT, AD_REPORT_RPS, AD_REPORT_BURST
//   - AD_SWEEP_INTERVAL, AD_SESSION_MAX_AGE
//   - DATABASE_URL, SOURCES_FILE
func LoadAPIConfig() (*APIConfig, error) {
	def := DefaultAPIConfig()
	cfg := &APIConfig{
		Server: ServerConfig{
			Addr:            pkgconfig.GetEnvString("API_ADDR", def.Server.Addr),
			ReadTimeout:     pkgconfig.GetEnvDuration("API_READ_TIMEOUT", def.Server.ReadTimeout),
			WriteTimeout:    pkgconfig.GetEnvDuration("API_WRITE_TIMEOUT", def.Server.WriteTimeout),
			RequestTimeout:  pkgconfig.GetEnvDuration("API_REQUEST_TIMEOUT", def.Server.RequestTimeout),
			ShutdownTimeout: pkgconfig.GetEnvDuration("API_SHUTDOWN_TIMEOUT", def.Server.ShutdownTimeout),
		},
		Backend: BackendConfig{
			BaseURL:     pkgconfig.GetEnvString("BACKEND_BASE_URL", ""),
			Timeout:     pkgconfig.GetEnvDuration("BACKEND_TIMEOUT", def.Backend.Timeout),
			MaxBodySize: int64(pkgconfig.GetEnvInt("BACKEND_MAX_BODY_SIZE", int(def.Backend.MaxBodySize))),
			PageParam:   pkgconfig.GetEnvString("BACKEND_PAGE_PARAM", def.Backend.PageParam),
		},
		Reporter: ReporterConfig{
			Endpoint:          pkgconfig.GetEnvString("AD_REPORT_ENDPOINT", ""),
			APIKey:            pkgconfig.GetEnvString("AD_REPORT_API_KEY", ""),
			Timeout:           pkgconfig.GetEnvDuration("AD_REPORT_TIMEOUT", def.Reporter.Timeout),
			RequestsPerSecond: pkgconfig.GetEnvFloat("AD_REPORT_RPS", def.Reporter.RequestsPerSecond),
			Burst:             pkgconfig.GetEnvInt("AD_REPORT_BURST", def.Reporter.Burst),
		},
		Ads: AdsConfig{
			SweepInterval: pkgconfig.GetEnvDuration("AD_SWEEP_INTERVAL", def.Ads.SweepInterval),
			MaxAge:        pkgconfig.GetEnvDuration("AD_SESSION_MAX_AGE", def.Ads.MaxAge),
		},
		DatabaseDSN: pkgconfig.GetEnvString("DATABASE_URL", ""),
		SourcesFile: pkgconfig.GetEnvString("SOURCES_FILE", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *APIConfig) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server addr is required"))
	}
	for name, d := range map[string]time.Duration{
		"server read timeout":     c.Server.ReadTimeout,
		"server write timeout":    c.Server.WriteTimeout,
		"server request timeout":  c.Server.RequestTimeout,
		"server shutdown timeout": c.Server.ShutdownTimeout,
		"backend timeout":         c.Backend.Timeout,
		"ad sweep interval":       c.Ads.SweepInterval,
		"ad session max age":      c.Ads.MaxAge,
	} {
		if err := pkgconfig.ValidatePositiveDuration(d); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.Server.RequestTimeout > c.Server.WriteTimeout {
		errs = append(errs, fmt.Errorf("server request timeout %v exceeds write timeout %v",
			c.Server.RequestTimeout, c.Server.WriteTimeout))
	}

	if err := validateHTTPURL(c.Backend.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("backend base url: %w", err))
	}
	if c.Backend.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("backend max body size must be positive, got %d", c.Backend.MaxBodySize))
	}

	if c.Reporter.Endpoint != "" {
		if err := validateHTTPURL(c.Reporter.Endpoint); err != nil {
			errs = append(errs, fmt.Errorf("ad report endpoint: %w", err))
		}
		if c.Reporter.RequestsPerSecond <= 0 || c.Reporter.Burst < 1 {
			errs = append(errs, fmt.Errorf("ad report rate limit must be positive, got %v/s burst %d",
				c.Reporter.RequestsPerSecond, c.Reporter.Burst))
		}
	}

	return errors.Join(errs...)
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}
