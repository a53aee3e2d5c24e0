package config

import (
	"fmt"
	"time"
)

// MailConfig holds transactional email configuration.
type MailConfig struct {
	// Enabled turns real delivery on. When false messages are only logged.
	Enabled bool
	// APIKey is the Resend API key.
	APIKey string
	// From is the default sender address.
	From string
	// BulkPacing is the delay between sequential sends after a failed batch.
	BulkPacing time.Duration
	// SendTimeout bounds a single notification send.
	SendTimeout time.Duration
}

// LoadMailConfigFromEnv loads mail configuration from environment variables.
func LoadMailConfigFromEnv() MailConfig {
	return MailConfig{
		Enabled:     GetEnvBool("MAIL_ENABLED", false),
		APIKey:      GetEnv("RESEND_API_KEY", ""),
		From:        GetEnv("MAIL_FROM", "Events <noreply@example.com>"),
		BulkPacing:  GetEnvDuration("MAIL_BULK_PACING", 200*time.Millisecond),
		SendTimeout: GetEnvDuration("MAIL_SEND_TIMEOUT", 10*time.Second),
	}
}

// Validate validates mail configuration.
func (c MailConfig) Validate() error {
	if c.Enabled && c.APIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required when MAIL_ENABLED is true")
	}
	if c.From == "" {
		return fmt.Errorf("MAIL_FROM must not be empty")
	}
	if c.BulkPacing < 0 {
		return fmt.Errorf("MAIL_BULK_PACING must not be negative")
	}
	return nil
}
