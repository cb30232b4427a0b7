package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Server.Addr = ":8080"
	c.Rules.Source = "csv"
	c.Rules.File = "rules.csv"
	c.Rules.TTLMinutes = 5
	c.AI.Enabled = false
	c.AI.Model = "gemini-2.0-flash"
	c.AI.TimeoutSeconds = 30
	return c
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "invalid rules source",
			mutate:  func(c *Config) { c.Rules.Source = "ftp" },
			wantErr: "invalid rules source",
		},
		{
			name:    "ttl below minimum",
			mutate:  func(c *Config) { c.Rules.TTLMinutes = 0 },
			wantErr: "ttl_minutes",
		},
		{
			name:    "sheets source requires spreadsheet id",
			mutate:  func(c *Config) { c.Rules.Source = "sheets" },
			wantErr: "spreadsheet_id",
		},
		{
			name:    "ai enabled requires api key",
			mutate:  func(c *Config) { c.AI.Enabled = true },
			wantErr: "GEMINI_API_KEY",
		},
		{
			name: "ai timeout out of range",
			mutate: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = "key"
				c.AI.TimeoutSeconds = 0
			},
			wantErr: "timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestConfig()
			tt.mutate(c)
			err := validateConfig(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestInitializeConfig_Defaults(t *testing.T) {
	t.Setenv("SMSLEDGER_RULES_SOURCE", "csv")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, ":8080", config.Server.Addr)
	assert.Equal(t, 5, config.Rules.TTLMinutes)
	assert.False(t, config.Pipeline.Strict)
	assert.Equal(t, "gemini-2.0-flash", config.AI.Model)
}

func TestInitializeConfig_EnvOverride(t *testing.T) {
	t.Setenv("SMSLEDGER_RULES_SOURCE", "csv")
	t.Setenv("SMSLEDGER_LOG_LEVEL", "debug")
	t.Setenv("SMSLEDGER_PIPELINE_STRICT", "true")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.True(t, config.Pipeline.Strict)
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	c := validTestConfig()
	c.Log.Level = "debug"
	c.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}
