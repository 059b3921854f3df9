package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.CSVPath))
	assert.Equal(t, "mega_sena.csv", filepath.Base(cfg.CSVPath))
	assert.Equal(t, 50, cfg.WindowSize)
	assert.Equal(t, 3, cfg.CombinationsPerCard)
	assert.Equal(t, 50, cfg.MaxCardsPerRequest)
	assert.Equal(t, 500, cfg.MaxWindowSize)
	assert.Equal(t, 20, cfg.RateLimitMaxRequests)
	assert.Equal(t, 60*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 10000, cfg.RateLimitKeyWarn)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Nil(t, cfg.Seed)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, "@every 5m", cfg.HistoryRefreshSpec)
	assert.Equal(t, 8001, cfg.Port)
}

func TestLoad_FromEnvironment(t *testing.T) {
	csv := filepath.Join(t.TempDir(), "history.csv")
	t.Setenv("MEGA_FACIL_CSV_PATH", csv)
	t.Setenv("MEGA_FACIL_WINDOW_SIZE", "25")
	t.Setenv("MEGA_FACIL_COMBINATIONS_PER_CARD", "4")
	t.Setenv("MEGA_FACIL_RATE_LIMIT_MAX", "3")
	t.Setenv("MEGA_FACIL_RATE_LIMIT_WINDOW", "10")
	t.Setenv("MEGA_FACIL_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MEGA_FACIL_SEED", "42")
	t.Setenv("MEGA_FACIL_TRUST_PROXY_HEADERS", "yes")
	t.Setenv("MEGA_FACIL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, csv, cfg.CSVPath)
	assert.Equal(t, 25, cfg.WindowSize)
	assert.Equal(t, 4, cfg.CombinationsPerCard)
	assert.Equal(t, 3, cfg.RateLimitMaxRequests)
	assert.Equal(t, 10*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(42), *cfg.Seed)
	assert.True(t, cfg.TrustProxyHeaders)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidSeed(t *testing.T) {
	t.Setenv("MEGA_FACIL_SEED", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("MEGA_FACIL_WINDOW_SIZE", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.WindowSize)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			WindowSize:           50,
			MaxWindowSize:        500,
			CombinationsPerCard:  3,
			MaxCardsPerRequest:   50,
			RateLimitMaxRequests: 20,
			RateLimitWindow:      time.Minute,
		}
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero window", func(c *Config) { c.WindowSize = 0 }, true},
		{"max window below default", func(c *Config) { c.MaxWindowSize = 10 }, true},
		{"zero combinations", func(c *Config) { c.CombinationsPerCard = 0 }, true},
		{"zero max cards", func(c *Config) { c.MaxCardsPerRequest = 0 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitMaxRequests = 0 }, true},
		{"zero rate window", func(c *Config) { c.RateLimitWindow = 0 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
