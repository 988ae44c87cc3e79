package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.MinTextChars != 100 || cfg.MinFieldCount != 2 {
		t.Errorf("strategy thresholds = %d/%d", cfg.MinTextChars, cfg.MinFieldCount)
	}
	if cfg.CheapPoolSize != 3 || cfg.VisionPoolSize != 1 {
		t.Errorf("pool sizes = %d/%d", cfg.CheapPoolSize, cfg.VisionPoolSize)
	}
	if cfg.VisionCooldown != 5*time.Second {
		t.Errorf("VisionCooldown = %v", cfg.VisionCooldown)
	}
	if cfg.RetryMaxAttempts != 4 {
		t.Errorf("RetryMaxAttempts = %d", cfg.RetryMaxAttempts)
	}
	if cfg.BatchWorkers != 3 {
		t.Errorf("BatchWorkers = %d", cfg.BatchWorkers)
	}
	if cfg.RateWindow != time.Hour || cfg.RateMaxRequests != 20 {
		t.Errorf("rate limit = %v/%d", cfg.RateWindow, cfg.RateMaxRequests)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHEAP_POOL_SIZE", "8")
	t.Setenv("VISION_COOLDOWN", "250ms")
	t.Setenv("RATE_MAX_REQUESTS", "5")
	t.Setenv("BATCH_WORKERS", "6")

	cfg := Load()
	if cfg.CheapPoolSize != 8 {
		t.Errorf("CheapPoolSize = %d", cfg.CheapPoolSize)
	}
	if cfg.VisionCooldown != 250*time.Millisecond {
		t.Errorf("VisionCooldown = %v", cfg.VisionCooldown)
	}
	if cfg.RateMaxRequests != 5 {
		t.Errorf("RateMaxRequests = %d", cfg.RateMaxRequests)
	}
	if cfg.BatchWorkers != 6 {
		t.Errorf("BatchWorkers = %d", cfg.BatchWorkers)
	}
}

func TestLoadFloorsInvalidValues(t *testing.T) {
	t.Setenv("CHEAP_POOL_SIZE", "-2")
	t.Setenv("BATCH_WORKERS", "0")

	cfg := Load()
	if cfg.CheapPoolSize != 3 {
		t.Errorf("CheapPoolSize floor = %d, want 3", cfg.CheapPoolSize)
	}
	if cfg.BatchWorkers != 3 {
		t.Errorf("BatchWorkers floor = %d, want 3", cfg.BatchWorkers)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{APIKey: "svc", AnthropicAPIKey: "sk-ant"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := (Config{AnthropicAPIKey: "sk-ant"}).Validate(); err == nil {
		t.Error("expected error for missing service key")
	}
	if err := (Config{APIKey: "svc"}).Validate(); err == nil {
		t.Error("expected error for missing oracle key")
	}
}
