// Package config provides Viper-based hierarchical configuration management
// plus environment/.env bootstrap helpers.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		MaxPractices   int    `mapstructure:"max_practices" yaml:"max_practices"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Data struct {
		Directory     string `mapstructure:"directory" yaml:"directory"`
		PracticesFile string `mapstructure:"practices_file" yaml:"practices_file"`
	} `mapstructure:"data" yaml:"data"`

	Export struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"export" yaml:"export"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config.yaml, then ETHICHECK_* environment
// variables. GEMINI_API_KEY is bound unprefixed.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ethicheck")
	v.AddConfigPath(".ethicheck")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ETHICHECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Keep going with defaults and env vars.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// API key always comes from the environment, unprefixed.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 60)
	v.SetDefault("ai.max_practices", 3)

	v.SetDefault("data.directory", "")
	v.SetDefault("data.practices_file", "practices.yaml")

	v.SetDefault("export.delimiter", ",")
	v.SetDefault("export.include_headers", true)
}

// validateConfig performs basic sanity checks on the loaded configuration
func validateConfig(config *Config) error {
	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("ai.timeout_seconds must be positive, got %d", config.AI.TimeoutSeconds)
	}

	if config.AI.MaxPractices <= 0 {
		return fmt.Errorf("ai.max_practices must be positive, got %d", config.AI.MaxPractices)
	}

	if len(config.Export.Delimiter) != 1 {
		return fmt.Errorf("export.delimiter must be a single character, got %q", config.Export.Delimiter)
	}

	return nil
}
