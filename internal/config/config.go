package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Oracle
	AnthropicAPIKey string
	AnthropicModel  string

	// Extraction strategy
	MinTextChars  int
	MinFieldCount int

	// Tier pools
	CheapPoolSize  int
	VisionPoolSize int
	VisionCooldown time.Duration

	// Retry policy
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryJitterMax   time.Duration

	// Batch coordinator
	BatchWorkers int

	// Admission control
	RateWindow        time.Duration
	RateMaxRequests   int
	RateSweepInterval time.Duration

	// Upload limits
	MaxUploadBytes int64
}

func Load() Config {
	// A .env file is optional; real env vars win.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("EARNEX_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		MinTextChars:  envInt("MIN_TEXT_CHARS", 100),
		MinFieldCount: envInt("MIN_FIELD_COUNT", 2),

		CheapPoolSize:  envInt("CHEAP_POOL_SIZE", 3),
		VisionPoolSize: envInt("VISION_POOL_SIZE", 1),
		VisionCooldown: envDuration("VISION_COOLDOWN", 5*time.Second),

		RetryMaxAttempts: envInt("RETRY_MAX_ATTEMPTS", 4),
		RetryBaseDelay:   envDuration("RETRY_BASE_DELAY", 2*time.Second),
		RetryJitterMax:   envDuration("RETRY_JITTER_MAX", time.Second),

		BatchWorkers: envInt("BATCH_WORKERS", 3),

		RateWindow:        envDuration("RATE_WINDOW", time.Hour),
		RateMaxRequests:   envInt("RATE_MAX_REQUESTS", 20),
		RateSweepInterval: envDuration("RATE_SWEEP_INTERVAL", 5*time.Minute),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
	}

	cfg.applyFloors()
	return cfg
}

func (c *Config) applyFloors() {
	if c.MinTextChars <= 0 {
		c.MinTextChars = 100
	}
	if c.MinFieldCount <= 0 {
		c.MinFieldCount = 2
	}
	if c.CheapPoolSize <= 0 {
		c.CheapPoolSize = 3
	}
	if c.VisionPoolSize <= 0 {
		c.VisionPoolSize = 1
	}
	if c.RetryMaxAttempts <= 0 {
		c.RetryMaxAttempts = 4
	}
	if c.BatchWorkers <= 0 {
		c.BatchWorkers = 3
	}
	if c.RateWindow <= 0 {
		c.RateWindow = time.Hour
	}
	if c.RateMaxRequests <= 0 {
		c.RateMaxRequests = 20
	}
	if c.RateSweepInterval <= 0 {
		c.RateSweepInterval = 5 * time.Minute
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("EARNEX_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
