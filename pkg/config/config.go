package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Upstream platform APIs
	ManifoldBaseURL   string
	PolymarketBaseURL string
	MetaculusBaseURL  string
	PredictItBaseURL  string
	KalshiBaseURL     string
	KalshiAPIKey      string

	// HTTP behavior
	HTTPTimeout time.Duration
	SearchLimit int

	// Per-platform rate limits (requests per minute)
	RateLimits map[string]int

	// Analytics
	MinSpread          float64
	MinMatchConfidence float64

	// Market cache
	CacheTTL      time.Duration
	CacheMaxItems int

	// Storage
	StorageMode  string // "off", "memory" or "postgres"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Upstream API defaults
		ManifoldBaseURL:   getEnvOrDefault("MANIFOLD_BASE_URL", "https://api.manifold.markets/v0"),
		PolymarketBaseURL: getEnvOrDefault("POLYMARKET_BASE_URL", "https://gamma-api.polymarket.com"),
		MetaculusBaseURL:  getEnvOrDefault("METACULUS_BASE_URL", "https://www.metaculus.com/api2"),
		PredictItBaseURL:  getEnvOrDefault("PREDICTIT_BASE_URL", "https://www.predictit.org/api/marketdata"),
		KalshiBaseURL:     getEnvOrDefault("KALSHI_BASE_URL", "https://api.elections.kalshi.com/trade-api/v2"),
		KalshiAPIKey:      os.Getenv("KALSHI_API_KEY"),

		// HTTP defaults
		HTTPTimeout: getDurationOrDefault("HTTP_TIMEOUT", 30*time.Second),
		SearchLimit: getIntOrDefault("SEARCH_LIMIT", 20),

		// Rate limit defaults (requests per minute)
		RateLimits: map[string]int{
			"manifold":   getIntOrDefault("RATE_LIMIT_MANIFOLD", 100),
			"polymarket": getIntOrDefault("RATE_LIMIT_POLYMARKET", 30),
			"metaculus":  getIntOrDefault("RATE_LIMIT_METACULUS", 60),
			"predictit":  getIntOrDefault("RATE_LIMIT_PREDICTIT", 20),
			"kalshi":     getIntOrDefault("RATE_LIMIT_KALSHI", 10),
		},

		// Analytics defaults
		MinSpread:          getFloat64OrDefault("MIN_SPREAD", 0.05),
		MinMatchConfidence: getFloat64OrDefault("MIN_MATCH_CONFIDENCE", 0.5),

		// Cache defaults (TTL 0 disables the market cache)
		CacheTTL:      getDurationOrDefault("CACHE_TTL", 30*time.Second),
		CacheMaxItems: getIntOrDefault("CACHE_MAX_ITEMS", 1000),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "off"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "predictmarket"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "predictmarket123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "predictmarket_mcp"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}

	if c.SearchLimit <= 0 {
		return fmt.Errorf("SEARCH_LIMIT must be positive, got %d", c.SearchLimit)
	}

	for platform, rpm := range c.RateLimits {
		if rpm <= 0 {
			return fmt.Errorf("rate limit for %s must be positive, got %d", platform, rpm)
		}
	}

	if c.MinSpread < 0 || c.MinSpread > 1 {
		return fmt.Errorf("MIN_SPREAD must be between 0 and 1, got %f", c.MinSpread)
	}

	if c.MinMatchConfidence < 0 || c.MinMatchConfidence > 1 {
		return fmt.Errorf("MIN_MATCH_CONFIDENCE must be between 0 and 1, got %f", c.MinMatchConfidence)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL cannot be negative, got %v", c.CacheTTL)
	}

	if c.StorageMode != "off" && c.StorageMode != "memory" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'off', 'memory' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
