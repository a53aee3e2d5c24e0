package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds authentication configuration.
type Config struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenTTL          time.Duration `mapstructure:"jwt_ttl"`
	Issuer            string        `mapstructure:"jwt_issuer"`
	AdminEmail        string        `mapstructure:"admin_email"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	AdminName         string        `mapstructure:"admin_name"`
}

var envBindings = map[string]string{
	"jwt_secret":          "JWT_SECRET",
	"jwt_ttl":             "JWT_TTL",
	"jwt_issuer":          "JWT_ISSUER",
	"admin_email":         "ADMIN_EMAIL",
	"admin_password_hash": "ADMIN_PASSWORD_HASH",
	"admin_name":          "ADMIN_NAME",
}

// LoadConfig reads auth configuration from an optional YAML file with env overrides.
// An empty configPath searches for auth.yaml in . and ./config.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("auth")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("jwt_ttl", "24h")
	v.SetDefault("jwt_issuer", "eventhub")
	v.SetDefault("admin_name", "Administrator")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading auth config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling auth config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("auth config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the auth configuration.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("jwt_ttl must be positive")
	}
	if c.Issuer == "" {
		return errors.New("jwt_issuer is required")
	}
	if (c.AdminEmail == "") != (c.AdminPasswordHash == "") {
		return errors.New("admin_email and admin_password_hash must be set together")
	}
	return nil
}

// HasBootstrapAdmin reports whether a bootstrap admin account is configured.
func (c *Config) HasBootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}
