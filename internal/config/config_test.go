package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMailConfig() MailConfig {
	return MailConfig{From: "noreply@example.com", BulkPacing: 200 * time.Millisecond}
}

func validStorageConfig() StorageConfig {
	return StorageConfig{Backend: StorageBackendLocal, LocalDir: "uploads", MaxUploadBytes: 1024}
}

func validConfig() Config {
	return Config{
		Server:  validServerConfig(),
		Logger:  LoggerConfig{Level: "info", Format: "json"},
		Mail:    validMailConfig(),
		Storage: validStorageConfig(),
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		GinMode: "release",
	}
}

func TestLoadFromEnv_DefaultValues(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "LOG_LEVEL", "GIN_MODE", "STORAGE_BACKEND", "MAIL_BULK_PACING", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, StorageBackendLocal, cfg.Storage.Backend)
	assert.Equal(t, 200*time.Millisecond, cfg.Mail.BulkPacing)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnv_CustomValues(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := LoadFromEnv()
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "debug mode", mutate: func(c *Config) { c.GinMode = "debug" }},
		{name: "test mode", mutate: func(c *Config) { c.GinMode = "test" }},
		{name: "metrics disabled ignore path", mutate: func(c *Config) { c.Metrics = MetricsConfig{Path: "metrics"} }},
		{
			name:    "server",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "server config validation failed",
		},
		{
			name:    "logger",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantErr: "logger config validation failed",
		},
		{
			name:    "mail enabled without api key",
			mutate:  func(c *Config) { c.Mail = MailConfig{Enabled: true, From: "noreply@example.com"} },
			wantErr: "mail config validation failed",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage = StorageConfig{Backend: "s3", MaxUploadBytes: 1} },
			wantErr: "storage config validation failed",
		},
		{
			name:    "relative metrics path",
			mutate:  func(c *Config) { c.Metrics.Path = "metrics" },
			wantErr: "metrics config validation failed",
		},
		{
			name:    "gin mode",
			mutate:  func(c *Config) { c.GinMode = "production" },
			wantErr: "invalid GIN_MODE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
