package config

import (
	"fmt"
	"strings"
)

// MetricsConfig holds prometheus exposition configuration.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// LoadMetricsConfigFromEnv loads metrics configuration from environment variables.
func LoadMetricsConfigFromEnv() MetricsConfig {
	return MetricsConfig{
		Enabled: GetEnvBool("METRICS_ENABLED", true),
		Path:    GetEnv("METRICS_PATH", "/metrics"),
	}
}

// Validate validates metrics configuration.
func (c MetricsConfig) Validate() error {
	if c.Enabled && !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("METRICS_PATH must start with '/': %s", c.Path)
	}
	return nil
}
