// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	CSVPath              string // History CSV (drawId,n1..n6), always absolute
	WindowSize           int    // Default recent-frequency window in draws
	CombinationsPerCard  int
	MaxCardsPerRequest   int
	MaxWindowSize        int
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	RateLimitKeyWarn     int // Tracked client keys that trigger a warning, 0 disables it
	AllowedOrigins       []string
	Seed                 *int64 // Optional fixed seed; nil means fresh entropy per request
	TrustProxyHeaders    bool   // Use X-Forwarded-For for the rate-limit key
	HistoryRefreshSpec   string // cron spec for the history refresh job, empty disables it
	LogLevel             string
	Port                 int
	DevMode              bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	csvPath, err := filepath.Abs(getEnv("MEGA_FACIL_CSV_PATH", filepath.Join("data", "mega_sena.csv")))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve history csv path: %w", err)
	}

	seed, err := getEnvAsOptionalInt64("MEGA_FACIL_SEED")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CSVPath:              csvPath,
		WindowSize:           getEnvAsInt("MEGA_FACIL_WINDOW_SIZE", 50),
		CombinationsPerCard:  getEnvAsInt("MEGA_FACIL_COMBINATIONS_PER_CARD", 3),
		MaxCardsPerRequest:   getEnvAsInt("MEGA_FACIL_MAX_CARDS", 50),
		MaxWindowSize:        getEnvAsInt("MEGA_FACIL_MAX_WINDOW_SIZE", 500),
		RateLimitMaxRequests: getEnvAsInt("MEGA_FACIL_RATE_LIMIT_MAX", 20),
		RateLimitWindow:      time.Duration(getEnvAsInt("MEGA_FACIL_RATE_LIMIT_WINDOW", 60)) * time.Second,
		RateLimitKeyWarn:     getEnvAsInt("MEGA_FACIL_RATE_LIMIT_KEY_WARN", 10000),
		AllowedOrigins:       getEnvAsList("MEGA_FACIL_ALLOWED_ORIGINS", []string{"*"}),
		Seed:                 seed,
		TrustProxyHeaders:    getEnvAsBool("MEGA_FACIL_TRUST_PROXY_HEADERS", false),
		HistoryRefreshSpec:   getEnv("MEGA_FACIL_HISTORY_REFRESH", "@every 5m"),
		LogLevel:             getEnv("MEGA_FACIL_LOG_LEVEL", "info"),
		Port:                 getEnvAsInt("MEGA_FACIL_PORT", 8001),
		DevMode:              getEnvAsBool("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that numeric settings are usable
func (c *Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.WindowSize)
	}
	if c.MaxWindowSize < c.WindowSize {
		return fmt.Errorf("max window size %d is below default window size %d", c.MaxWindowSize, c.WindowSize)
	}
	if c.CombinationsPerCard <= 0 {
		return fmt.Errorf("combinations per card must be positive, got %d", c.CombinationsPerCard)
	}
	if c.MaxCardsPerRequest <= 0 {
		return fmt.Errorf("max cards per request must be positive, got %d", c.MaxCardsPerRequest)
	}
	if c.RateLimitMaxRequests <= 0 {
		return fmt.Errorf("rate limit max requests must be positive, got %d", c.RateLimitMaxRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimitWindow)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func getEnvAsOptionalInt64(key string) (*int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &parsed, nil
}

func getEnvAsList(key string, defaultValue []string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
