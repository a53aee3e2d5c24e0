package config

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the API. "*" allows any origin.
	AllowedOrigins []string
}

// LoadCORSConfigFromEnv loads CORS configuration from environment variables.
func LoadCORSConfigFromEnv() CORSConfig {
	return CORSConfig{
		AllowedOrigins: GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
	}
}

// IsAllowed reports whether origin may call the API.
func (c CORSConfig) IsAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
