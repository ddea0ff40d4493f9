package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.ManifoldBaseURL != "https://api.manifold.markets/v0" {
		t.Errorf("unexpected manifold base url: %s", cfg.ManifoldBaseURL)
	}

	if cfg.KalshiBaseURL != "https://api.elections.kalshi.com/trade-api/v2" {
		t.Errorf("unexpected kalshi base url: %s", cfg.KalshiBaseURL)
	}

	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.HTTPTimeout)
	}

	wantLimits := map[string]int{
		"manifold":   100,
		"polymarket": 30,
		"metaculus":  60,
		"predictit":  20,
		"kalshi":     10,
	}
	for platform, want := range wantLimits {
		if got := cfg.RateLimits[platform]; got != want {
			t.Errorf("rate limit for %s: expected %d, got %d", platform, want, got)
		}
	}

	if cfg.MinSpread != 0.05 {
		t.Errorf("expected min spread 0.05, got %f", cfg.MinSpread)
	}

	if cfg.MinMatchConfidence != 0.5 {
		t.Errorf("expected min match confidence 0.5, got %f", cfg.MinMatchConfidence)
	}

	if cfg.StorageMode != "off" {
		t.Errorf("expected storage mode off, got %s", cfg.StorageMode)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MANIFOLD_BASE_URL", "http://127.0.0.1:9001")
	t.Setenv("RATE_LIMIT_KALSHI", "25")
	t.Setenv("MIN_SPREAD", "0.1")
	t.Setenv("CACHE_TTL", "0")
	t.Setenv("STORAGE_MODE", "memory")
	t.Setenv("KALSHI_API_KEY", "test-token")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}

	if cfg.ManifoldBaseURL != "http://127.0.0.1:9001" {
		t.Errorf("unexpected manifold base url: %s", cfg.ManifoldBaseURL)
	}

	if cfg.RateLimits["kalshi"] != 25 {
		t.Errorf("expected kalshi rpm 25, got %d", cfg.RateLimits["kalshi"])
	}

	if cfg.MinSpread != 0.1 {
		t.Errorf("expected min spread 0.1, got %f", cfg.MinSpread)
	}

	if cfg.CacheTTL != 0 {
		t.Errorf("expected cache ttl 0, got %v", cfg.CacheTTL)
	}

	if cfg.StorageMode != "memory" {
		t.Errorf("expected storage mode memory, got %s", cfg.StorageMode)
	}

	if cfg.KalshiAPIKey != "test-token" {
		t.Errorf("expected kalshi api key to load, got %q", cfg.KalshiAPIKey)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"empty port", func(c *Config) { c.HTTPPort = "" }, "HTTP_PORT"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "HTTP_TIMEOUT"},
		{"zero search limit", func(c *Config) { c.SearchLimit = 0 }, "SEARCH_LIMIT"},
		{"negative rpm", func(c *Config) { c.RateLimits["kalshi"] = -1 }, "rate limit"},
		{"spread above one", func(c *Config) { c.MinSpread = 1.5 }, "MIN_SPREAD"},
		{"confidence below zero", func(c *Config) { c.MinMatchConfidence = -0.1 }, "MIN_MATCH_CONFIDENCE"},
		{"unknown storage mode", func(c *Config) { c.StorageMode = "redis" }, "STORAGE_MODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromEnv()
			if err != nil {
				t.Fatalf("load defaults: %v", err)
			}

			tt.mutate(cfg)

			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error mentioning %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestInvalidEnvValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SEARCH_LIMIT", "not-a-number")
	t.Setenv("MIN_SPREAD", "lots")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.SearchLimit != 20 {
		t.Errorf("expected default search limit 20, got %d", cfg.SearchLimit)
	}

	if cfg.MinSpread != 0.05 {
		t.Errorf("expected default min spread, got %f", cfg.MinSpread)
	}

	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.HTTPTimeout)
	}
}
