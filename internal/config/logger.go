package config

import (
	"fmt"
	"slices"
	"strings"
)

// Log levels and formats accepted by LoggerConfig.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"json", "console"}
)

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	// Level is one of LogLevels.
	Level string
	// Format is one of LogFormats.
	Format string
	// Output is stdout, stderr or a file path. Empty means stdout.
	Output string
	// Service is attached to every entry so logs from several deployments can be told apart.
	Service string
}

// LoadLoggerConfigFromEnv loads logger configuration from environment variables.
func LoadLoggerConfigFromEnv() LoggerConfig {
	return LoggerConfig{
		Level:   strings.ToLower(GetEnv("LOG_LEVEL", "info")),
		Format:  strings.ToLower(GetEnv("LOG_FORMAT", "json")),
		Output:  GetEnv("LOG_OUTPUT", "stdout"),
		Service: GetEnv("LOG_SERVICE", "eventhub"),
	}
}

// Validate validates logger configuration.
func (c LoggerConfig) Validate() error {
	if !slices.Contains(LogLevels, c.Level) {
		return fmt.Errorf("invalid log level: %s (must be: %s)", c.Level, strings.Join(LogLevels, ", "))
	}
	if !slices.Contains(LogFormats, c.Format) {
		return fmt.Errorf("invalid log format: %s (must be: %s)", c.Format, strings.Join(LogFormats, ", "))
	}
	if strings.TrimSpace(c.Output) != c.Output {
		return fmt.Errorf("invalid log output: %q has surrounding whitespace", c.Output)
	}
	return nil
}

// IsProduction reports whether the production encoder preset applies.
func (c LoggerConfig) IsProduction() bool {
	return c.Format == "json" && c.Level != "debug"
}

// OutputPath returns the zap sink for Output.
func (c LoggerConfig) OutputPath() string {
	if c.Output == "" {
		return "stdout"
	}
	return c.Output
}
