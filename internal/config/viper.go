// Package config provides Viper-based hierarchical configuration: defaults,
// an optional receipts.yaml file, and RECEIPTS_-prefixed environment
// variables, in increasing order of precedence. The loaded Config is passed
// explicitly into components at construction; nothing reads it from module
// state.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Validation struct {
		MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
		MaxPastDays   int     `mapstructure:"max_past_days" yaml:"max_past_days"`
		MaxFutureDays int     `mapstructure:"max_future_days" yaml:"max_future_days"`
	} `mapstructure:"validation" yaml:"validation"`

	Processing struct {
		ConcurrencyThreshold int     `mapstructure:"concurrency_threshold" yaml:"concurrency_threshold"`
		ReviewAmount         float64 `mapstructure:"review_amount" yaml:"review_amount"`
		ReviewConfidence     float64 `mapstructure:"review_confidence" yaml:"review_confidence"`
	} `mapstructure:"processing" yaml:"processing"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// A missing config file is fine; a malformed one is an error.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations, closest first
	v.SetConfigName("receipts")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.receipt-processor")

	// 3. Environment variables
	v.SetEnvPrefix("RECEIPTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key is always taken from the unprefixed environment variable
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding GEMINI_API_KEY environment variable: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)

	// AI defaults
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash-exp")
	v.SetDefault("ai.timeout_seconds", 30)

	// Validation defaults
	v.SetDefault("validation.min_confidence", 0.8)
	v.SetDefault("validation.max_past_days", 365)
	v.SetDefault("validation.max_future_days", 30)

	// Processing defaults
	v.SetDefault("processing.concurrency_threshold", 100)
	v.SetDefault("processing.review_amount", 1000)
	v.SetDefault("processing.review_confidence", 0.7)

	// Definition file defaults: empty means search the standard locations
	v.SetDefault("categories.file", "")
	v.SetDefault("rules.file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate AI configuration
	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	// Validate validation thresholds
	if config.Validation.MinConfidence <= 0.0 || config.Validation.MinConfidence > 1.0 {
		return fmt.Errorf("validation.min_confidence must be between 0.0 and 1.0, got: %f", config.Validation.MinConfidence)
	}
	if config.Validation.MaxPastDays < 1 {
		return fmt.Errorf("validation.max_past_days must be positive, got: %d", config.Validation.MaxPastDays)
	}
	if config.Validation.MaxFutureDays < 1 {
		return fmt.Errorf("validation.max_future_days must be positive, got: %d", config.Validation.MaxFutureDays)
	}

	// Validate processing thresholds
	if config.Processing.ConcurrencyThreshold < 1 {
		return fmt.Errorf("processing.concurrency_threshold must be positive, got: %d", config.Processing.ConcurrencyThreshold)
	}
	if config.Processing.ReviewAmount < 0 {
		return fmt.Errorf("processing.review_amount must not be negative, got: %f", config.Processing.ReviewAmount)
	}
	if config.Processing.ReviewConfidence < 0.0 || config.Processing.ReviewConfidence > 1.0 {
		return fmt.Errorf("processing.review_confidence must be between 0.0 and 1.0, got: %f", config.Processing.ReviewConfidence)
	}

	return nil
}
