package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the TOML shape accepted by the CLI's --config flag.
// Durations are strings in time.ParseDuration form. Zero values leave
// the env-derived setting untouched.
type fileConfig struct {
	AnthropicAPIKey string `toml:"anthropic_api_key"`
	AnthropicModel  string `toml:"anthropic_model"`

	MinTextChars  int `toml:"min_text_chars"`
	MinFieldCount int `toml:"min_field_count"`

	CheapPoolSize  int    `toml:"cheap_pool_size"`
	VisionPoolSize int    `toml:"vision_pool_size"`
	VisionCooldown string `toml:"vision_cooldown"`

	RetryMaxAttempts int    `toml:"retry_max_attempts"`
	RetryBaseDelay   string `toml:"retry_base_delay"`
	RetryJitterMax   string `toml:"retry_jitter_max"`

	BatchWorkers int `toml:"batch_workers"`
}

// ApplyFile overlays settings from a TOML file onto c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.AnthropicAPIKey != "" {
		c.AnthropicAPIKey = fc.AnthropicAPIKey
	}
	if fc.AnthropicModel != "" {
		c.AnthropicModel = fc.AnthropicModel
	}
	if fc.MinTextChars > 0 {
		c.MinTextChars = fc.MinTextChars
	}
	if fc.MinFieldCount > 0 {
		c.MinFieldCount = fc.MinFieldCount
	}
	if fc.CheapPoolSize > 0 {
		c.CheapPoolSize = fc.CheapPoolSize
	}
	if fc.VisionPoolSize > 0 {
		c.VisionPoolSize = fc.VisionPoolSize
	}
	if fc.RetryMaxAttempts > 0 {
		c.RetryMaxAttempts = fc.RetryMaxAttempts
	}
	if fc.BatchWorkers > 0 {
		c.BatchWorkers = fc.BatchWorkers
	}

	for _, d := range []struct {
		raw string
		dst *time.Duration
	}{
		{fc.VisionCooldown, &c.VisionCooldown},
		{fc.RetryBaseDelay, &c.RetryBaseDelay},
		{fc.RetryJitterMax, &c.RetryJitterMax},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", d.raw, err)
		}
		*d.dst = parsed
	}

	return nil
}
