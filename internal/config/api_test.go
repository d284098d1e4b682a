package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIConfig_Defaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com/v2")

	cfg, err := LoadAPIConfig()
	require.NoError(t, err)

	def := DefaultAPIConfig()
	assert.Equal(t, "https://api.example.com/v2", cfg.Backend.BaseURL)
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Ads, cfg.Ads)
	assert.Empty(t, cfg.Reporter.Endpoint)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.SourcesFile)
}

func TestLoadAPIConfig_Overrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend:8000")
	t.Setenv("API_ADDR", ":9000")
	t.Setenv("API_REQUEST_TIMEOUT", "5s")
	t.Setenv("AD_REPORT_ENDPOINT", "https://collector.example.com/events")
	t.Setenv("AD_REPORT_RPS", "2.5")
	t.Setenv("AD_SESSION_MAX_AGE", "1h")
	t.Setenv("DATABASE_URL", "postgres://feed:secret@db/feed")

	cfg, err := LoadAPIConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "https://collector.example.com/events", cfg.Reporter.Endpoint)
	assert.Equal(t, 2.5, cfg.Reporter.RequestsPerSecond)
	assert.Equal(t, time.Hour, cfg.Ads.MaxAge)
	assert.Equal(t, "postgres://feed:secret@db/feed", cfg.DatabaseDSN)
}

func TestLoadAPIConfig_MissingBackend(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := LoadAPIConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend base url")
}

func TestAPIConfig_Validate(t *testing.T) {
	valid := func() APIConfig {
		c := DefaultAPIConfig()
		c.Backend.BaseURL = "https://api.example.com"
		return c
	}

	tests := []struct {
		name   string
		mutate func(*APIConfig)
		want   string
	}{
		{"ftp backend", func(c *APIConfig) { c.Backend.BaseURL = "ftp://api.example.com" }, "scheme"},
		{"hostless backend", func(c *APIConfig) { c.Backend.BaseURL = "https://" }, "host"},
		{"zero sweep", func(c *APIConfig) { c.Ads.SweepInterval = 0 }, "ad sweep interval"},
		{"request beyond write", func(c *APIConfig) { c.Server.RequestTimeout = time.Minute }, "exceeds write timeout"},
		{"bad collector", func(c *APIConfig) { c.Reporter.Endpoint = "collector" }, "ad report endpoint"},
		{"collector without rate", func(c *APIConfig) {
			c.Reporter.Endpoint = "https://collector.example.com"
			c.Reporter.Burst = 0
		}, "rate limit"},
		{"empty addr", func(c *APIConfig) { c.Server.Addr = "" }, "server addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	c := valid()
	assert.NoError(t, c.Validate())
}
