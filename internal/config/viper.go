// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
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

	Data struct {
		Directory        string `mapstructure:"directory" yaml:"directory"`
		Backend          string `mapstructure:"backend" yaml:"backend"`
		TransactionsFile string `mapstructure:"transactions_file" yaml:"transactions_file"`
		SQLitePath       string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
		RulesFile        string `mapstructure:"rules_file" yaml:"rules_file"`
		AliasesFile      string `mapstructure:"aliases_file" yaml:"aliases_file"`
		HeuristicsFile   string `mapstructure:"heuristics_file" yaml:"heuristics_file"`
	} `mapstructure:"data" yaml:"data"`

	Matching struct {
		SimilarityTolerance      float64 `mapstructure:"similarity_tolerance" yaml:"similarity_tolerance"`
		DuplicateAmountTolerance float64 `mapstructure:"duplicate_amount_tolerance" yaml:"duplicate_amount_tolerance"`
	} `mapstructure:"matching" yaml:"matching"`

	Recurrence struct {
		Tolerance float64 `mapstructure:"tolerance" yaml:"tolerance"`
	} `mapstructure:"recurrence" yaml:"recurrence"`

	Split struct {
		Epsilon float64 `mapstructure:"epsilon" yaml:"epsilon"`
	} `mapstructure:"split" yaml:"split"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig loads configuration from defaults, the config file, and the
// environment, in increasing priority. configFile overrides the search path
// when set.
func InitializeConfig(configFile string) (*Config, error) {
	return Load(viper.New(), configFile)
}

// Load fills v and decodes it into a validated Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.spendtag")
		v.AddConfigPath(".spendtag")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("SPENDTAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key comes from the unprefixed variable
	if err := v.BindEnv("ai.api_key", "SPENDTAG_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
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

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.directory", "")
	v.SetDefault("data.backend", "csv")
	v.SetDefault("data.transactions_file", "transactions.csv")
	v.SetDefault("data.sqlite_path", "spendtag.db")
	v.SetDefault("data.rules_file", "rules.yaml")
	v.SetDefault("data.aliases_file", "aliases.yaml")
	v.SetDefault("data.heuristics_file", "heuristics.yaml")

	v.SetDefault("matching.similarity_tolerance", 0.05)
	v.SetDefault("matching.duplicate_amount_tolerance", 0.0)
	v.SetDefault("recurrence.tolerance", 0.2)
	v.SetDefault("split.epsilon", 0.01)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 30)
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Data.Backend {
	case "csv", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid data.backend: %s (must be 'csv', 'sqlite' or 'memory')", config.Data.Backend)
	}

	tolerances := []struct {
		key   string
		value float64
	}{
		{"matching.similarity_tolerance", config.Matching.SimilarityTolerance},
		{"matching.duplicate_amount_tolerance", config.Matching.DuplicateAmountTolerance},
		{"recurrence.tolerance", config.Recurrence.Tolerance},
	}
	for _, tol := range tolerances {
		if tol.value < 0 || tol.value >= 1 {
			return fmt.Errorf("%s must be in [0, 1), got: %f", tol.key, tol.value)
		}
	}
	if config.Split.Epsilon < 0 || config.Split.Epsilon > 1 {
		return fmt.Errorf("split.epsilon must be between 0 and 1, got: %f", config.Split.Epsilon)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}
	return nil
}

// Path resolves a data file name against data.directory. Absolute names and an
// empty directory leave name unchanged.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || c.Data.Directory == "" {
		return name
	}
	return filepath.Join(c.Data.Directory, name)
}

// AIReady reports whether the AI strategy can be constructed.
func (c *Config) AIReady() bool {
	return c.AI.Enabled && c.AI.APIKey != ""
}
