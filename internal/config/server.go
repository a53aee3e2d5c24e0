package config

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is the bind host. Empty binds every interface.
	Host string
	// Port accepts both ":8080" and "8080".
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	// WriteTimeout applies to regular responses. Event streams clear it per request.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// ShutdownTimeout bounds graceful shutdown of in-flight requests. Zero stops immediately.
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
}

// LoadServerConfigFromEnv loads server configuration from SERVER_* environment variables.
func LoadServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Host:              GetEnv("SERVER_HOST", ""),
		Port:              GetEnv("SERVER_PORT", ":8080"),
		ReadTimeout:       GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		ReadHeaderTimeout: GetEnvDuration("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
		WriteTimeout:      GetEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:       GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:   GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		MaxHeaderBytes:    GetEnvInt("SERVER_MAX_HEADER_BYTES", http.DefaultMaxHeaderBytes),
	}
}

// GetAddress returns the listen address.
func (c ServerConfig) GetAddress() string {
	if c.Host == "" {
		return c.Port
	}
	return net.JoinHostPort(c.Host, strings.TrimPrefix(c.Port, ":"))
}

// NewHTTPServer returns an http.Server serving handler with the configured limits.
func (c ServerConfig) NewHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              c.GetAddress(),
		Handler:           handler,
		ReadTimeout:       c.ReadTimeout,
		ReadHeaderTimeout: c.ReadHeaderTimeout,
		WriteTimeout:      c.WriteTimeout,
		IdleTimeout:       c.IdleTimeout,
		MaxHeaderBytes:    c.MaxHeaderBytes,
	}
}

// Validate validates server configuration.
func (c ServerConfig) Validate() error {
	switch {
	case c.ReadTimeout <= 0:
		return errors.New("ReadTimeout must be greater than 0")
	case c.ReadHeaderTimeout < 0:
		return errors.New("ReadHeaderTimeout must not be negative")
	case c.WriteTimeout <= 0:
		return errors.New("WriteTimeout must be greater than 0")
	case c.IdleTimeout <= 0:
		return errors.New("IdleTimeout must be greater than 0")
	case c.ShutdownTimeout < 0:
		return errors.New("ShutdownTimeout must not be negative")
	case c.MaxHeaderBytes < 0:
		return errors.New("MaxHeaderBytes must not be negative")
	}
	return nil
}
