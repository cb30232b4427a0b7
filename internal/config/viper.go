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

	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"server" yaml:"server"`

	Pipeline struct {
		// Strict makes a message with no recognizable amount a hard failure
		// instead of degrading to zero.
		Strict bool `mapstructure:"strict" yaml:"strict"`
	} `mapstructure:"pipeline" yaml:"pipeline"`

	Rules struct {
		// Source selects where merchant rules come from: "sheets" or "csv".
		Source     string `mapstructure:"source" yaml:"source"`
		File       string `mapstructure:"file" yaml:"file"`
		TTLMinutes int    `mapstructure:"ttl_minutes" yaml:"ttl_minutes"`
	} `mapstructure:"rules" yaml:"rules"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Sheets struct {
		SpreadsheetID      string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
		RulesRange         string `mapstructure:"rules_range" yaml:"rules_range"`
		LedgerRange        string `mapstructure:"ledger_range" yaml:"ledger_range"`
		ServiceAccountFile string `mapstructure:"service_account_file" yaml:"service_account_file"`
	} `mapstructure:"sheets" yaml:"sheets"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.sms-ledger")
	v.AddConfigPath(".sms-ledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SMSLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file not found or invalid is OK, continue with defaults
			// and environment variables.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The Gemini key is always read from the conventional unprefixed variable.
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("pipeline.strict", false)

	v.SetDefault("rules.source", "sheets")
	v.SetDefault("rules.file", "rules.csv")
	v.SetDefault("rules.ttl_minutes", 5)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.rules_range", "Rules!A2:D")
	v.SetDefault("sheets.ledger_range", "Transactions!A:I")
	v.SetDefault("sheets.service_account_file", "")

	v.SetDefault("categories.file", "")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Rules.Source != "sheets" && config.Rules.Source != "csv" {
		return fmt.Errorf("invalid rules source: %s (must be 'sheets' or 'csv')", config.Rules.Source)
	}

	if config.Rules.TTLMinutes < 1 {
		return fmt.Errorf("rules.ttl_minutes must be at least 1, got: %d", config.Rules.TTLMinutes)
	}

	if config.Rules.Source == "sheets" && config.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("sheets.spreadsheet_id required when rules source is 'sheets'")
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

// ConfigureLoggingFromConfig configures a logrus logger from the Config.
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
