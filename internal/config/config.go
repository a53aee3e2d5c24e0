// Package config provides application configuration loaded from the environment.
package config

import (
	"fmt"
	"slices"
)

// GinModes are the accepted GIN_MODE values.
var GinModes = []string{"debug", "release", "test"}

// Config holds application configuration.
type Config struct {
	Server ServerConfig
	Logger LoggerConfig
	// CORS lists the browser origins allowed to call the API.
	CORS    CORSConfig
	Mail    MailConfig
	Storage StorageConfig
	Metrics MetricsConfig
	// GinMode is one of GinModes.
	GinMode string
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Server:  LoadServerConfigFromEnv(),
		Logger:  LoadLoggerConfigFromEnv(),
		CORS:    LoadCORSConfigFromEnv(),
		Mail:    LoadMailConfigFromEnv(),
		Storage: LoadStorageConfigFromEnv(),
		Metrics: LoadMetricsConfigFromEnv(),
		GinMode: GetEnv("GIN_MODE", "release"),
	}
}

// Validate checks every section and reports the first failure.
func (c Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"server", c.Server.Validate},
		{"logger", c.Logger.Validate},
		{"mail", c.Mail.Validate},
		{"storage", c.Storage.Validate},
		{"metrics", c.Metrics.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%s config validation failed: %w", s.name, err)
		}
	}

	if !slices.Contains(GinModes, c.GinMode) {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}
	return nil
}
