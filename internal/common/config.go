package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig  `toml:"logging"`
	Storage     StorageConfig  `toml:"storage"`
	LLM         LLMConfig      `toml:"llm"`
	Metadata    MetadataConfig `toml:"metadata"`
	Report      ReportConfig   `toml:"report"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration for the metadata
// and enrichment caches.
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean runs
}

// LLMConfig selects and configures the narrative-generation provider.
// The deterministic inference core never touches this; it only affects the
// report narrative, tag refinement and issuer enrichment layers.
type LLMConfig struct {
	Provider string       `toml:"provider" validate:"omitempty,oneof=claude offline"` // "claude" or "offline"
	Claude   ClaudeConfig `toml:"claude"`
}

type ClaudeConfig struct {
	APIKey            string  `toml:"api_key"`
	Model             string  `toml:"model"`
	MaxTokens         int     `toml:"max_tokens"`
	Timeout           string  `toml:"timeout"`             // e.g. "60s"
	RequestsPerMinute float64 `toml:"requests_per_minute"` // client-side rate limit
}

// MetadataConfig configures best-effort external token metadata enrichment.
type MetadataConfig struct {
	Enabled             bool   `toml:"enabled"`
	CoinGeckoAPIKey     string `toml:"coingecko_api_key"`
	CoinMarketCapAPIKey string `toml:"coinmarketcap_api_key"`
	CacheTTL            string `toml:"cache_ttl"` // e.g. "24h"
}

type ReportConfig struct {
	OutputDir string   `toml:"output_dir"`
	Formats   []string `toml:"formats" validate:"dive,oneof=json html pdf"` // "json", "html", "pdf"
}

// DefaultConfig returns the baseline configuration before file/env overrides
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/cache",
			},
		},
		LLM: LLMConfig{
			Provider: "offline",
			Claude: ClaudeConfig{
				Model:             "claude-sonnet-4-20250514",
				MaxTokens:         2048,
				Timeout:           "60s",
				RequestsPerMinute: 30,
			},
		},
		Metadata: MetadataConfig{
			Enabled:  true,
			CacheTTL: "24h",
		},
		Report: ReportConfig{
			OutputDir: "./reports",
			Formats:   []string{"json", "pdf"},
		},
	}
}

// LoadConfig loads configuration in priority order:
// defaults -> file1 -> file2 -> ... -> environment variables.
// Later files override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variables on top of the loaded
// configuration. Only secrets and the handful of settings that make sense
// per-invocation are exposed here.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("CENSEO_LOG_LEVEL"); v != "" {
		config.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CENSEO_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.LLM.Claude.APIKey = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		config.Metadata.CoinGeckoAPIKey = v
	}
	if v := os.Getenv("COINMARKETCAP_API_KEY"); v != "" {
		config.Metadata.CoinMarketCapAPIKey = v
	}
}
