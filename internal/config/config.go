// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
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
		RawDir       string `mapstructure:"raw_dir" yaml:"raw_dir"`
		ProcessedDir string `mapstructure:"processed_dir" yaml:"processed_dir"`
		OutputFile   string `mapstructure:"output_file" yaml:"output_file"`
	} `mapstructure:"data" yaml:"data"`

	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`

	Account struct {
		Name string `mapstructure:"name" yaml:"name"`
		Type string `mapstructure:"type" yaml:"type"`
	} `mapstructure:"account" yaml:"account"`

	Categorization struct {
		TaxonomyFile string `mapstructure:"taxonomy_file" yaml:"taxonomy_file"`
		MLEnabled    bool   `mapstructure:"ml_enabled" yaml:"ml_enabled"`
		MLModelPath  string `mapstructure:"ml_model_path" yaml:"ml_model_path"`
	} `mapstructure:"categorization" yaml:"categorization"`

	// Analysis thresholds are consumed by downstream analytics tooling,
	// not by the pipeline itself. They live here so one config file serves
	// both.
	Analysis struct {
		AnomalyZScore       float64 `mapstructure:"anomaly_zscore" yaml:"anomaly_zscore"`
		RecurringWindowDays int     `mapstructure:"recurring_window_days" yaml:"recurring_window_days"`
		RecurringVariance   float64 `mapstructure:"recurring_variance" yaml:"recurring_variance"`
	} `mapstructure:"analysis" yaml:"analysis"`
}

// LoadEnv loads a .env file from the working directory when present.
func LoadEnv() {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then BANKLEDGER_* env variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.bankledger")
	v.AddConfigPath(".bankledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BANKLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.raw_dir", "data/raw")
	v.SetDefault("data.processed_dir", "data/processed")
	v.SetDefault("data.output_file", "data/transactions.csv")

	v.SetDefault("database.path", "data/finance.db")

	v.SetDefault("account.name", "Main")
	v.SetDefault("account.type", "savings")

	v.SetDefault("categorization.taxonomy_file", "")
	v.SetDefault("categorization.ml_enabled", false)
	v.SetDefault("categorization.ml_model_path", "")

	v.SetDefault("analysis.anomaly_zscore", 2.0)
	v.SetDefault("analysis.recurring_window_days", 35)
	v.SetDefault("analysis.recurring_variance", 0.1)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if config.Analysis.AnomalyZScore <= 0 {
		return fmt.Errorf("analysis.anomaly_zscore must be positive, got: %f", config.Analysis.AnomalyZScore)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the process-wide logrus logger from the
// Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
