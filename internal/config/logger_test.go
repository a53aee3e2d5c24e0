package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLoggerConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "LOG_SERVICE"} {
			t.Setenv(key, "")
		}

		cfg := LoadLoggerConfigFromEnv()
		assert.Equal(t, LoggerConfig{Level: "info", Format: "json", Output: "stdout", Service: "eventhub"}, cfg)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("overrides are normalised", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("LOG_FORMAT", "Console")
		t.Setenv("LOG_OUTPUT", "/var/log/eventhub/server.log")
		t.Setenv("LOG_SERVICE", "eventhub-staging")

		cfg := LoadLoggerConfigFromEnv()
		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.Equal(t, "/var/log/eventhub/server.log", cfg.Output)
		assert.Equal(t, "eventhub-staging", cfg.Service)
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  LoggerConfig
		wantErr string
	}{
		{name: "every level", config: LoggerConfig{Level: "warn", Format: "json"}},
		{name: "empty output means stdout", config: LoggerConfig{Level: "error", Format: "console"}},
		{name: "file output", config: LoggerConfig{Level: "info", Format: "json", Output: "logs/app.log"}},
		{name: "unknown level", config: LoggerConfig{Level: "trace", Format: "json"}, wantErr: "invalid log level: trace"},
		{name: "unknown format", config: LoggerConfig{Level: "info", Format: "xml"}, wantErr: "invalid log format: xml"},
		{name: "padded output", config: LoggerConfig{Level: "info", Format: "json", Output: " stdout"}, wantErr: "invalid log output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	for _, level := range LogLevels {
		assert.NoError(t, LoggerConfig{Level: level, Format: "json"}.Validate(), level)
	}
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	assert.True(t, LoggerConfig{Level: "info", Format: "json"}.IsProduction())
	assert.True(t, LoggerConfig{Level: "error", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "debug", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "info", Format: "console"}.IsProduction())
}

func TestLoggerConfig_OutputPath(t *testing.T) {
	assert.Equal(t, "stdout", LoggerConfig{}.OutputPath())
	assert.Equal(t, "stderr", LoggerConfig{Output: "stderr"}.OutputPath())
	assert.Equal(t, "logs/app.log", LoggerConfig{Output: "logs/app.log"}.OutputPath())
}
