package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.DenyPrivateIPs)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.Threshold = -1 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero parallelism", func(c *Config) { c.Parallelism = 0 }},
		{"parallelism too high", func(c *Config) { c.Parallelism = 51 }},
		{"body too small", func(c *Config) { c.MaxBodySize = 100 }},
		{"body too large", func(c *Config) { c.MaxBodySize = 200 << 20 }},
		{"redirects too high", func(c *Config) { c.MaxRedirects = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONTENT_FETCH_ENABLED", "true")
	t.Setenv("CONTENT_FETCH_THRESHOLD", "1200")
	t.Setenv("CONTENT_FETCH_TIMEOUT", "3s")
	t.Setenv("CONTENT_FETCH_PARALLELISM", "not-a-number")
	t.Setenv("CONTENT_FETCH_DENY_PRIVATE_IPS", "false")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1200, cfg.Threshold)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultConfig().Parallelism, cfg.Parallelism, "unparseable value keeps the default")
	assert.False(t, cfg.DenyPrivateIPs)
}

func TestLoadConfigFromEnv_OutOfRange(t *testing.T) {
	t.Setenv("CONTENT_FETCH_MAX_REDIRECTS", "50")

	_, err := LoadConfigFromEnv()
	assert.ErrorContains(t, err, "max redirects")
}
