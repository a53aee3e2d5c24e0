package config

import "fmt"

// Storage backends.
const (
	StorageBackendLocal = "local"
	StorageBackendGCS   = "gcs"
)

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	// Backend is either "local" or "gcs".
	Backend string
	// LocalDir is the directory used by the local backend.
	LocalDir string
	// PublicBaseURL prefixes object keys in returned URLs for the local backend.
	PublicBaseURL string
	// Bucket is the GCS bucket name.
	Bucket string
	// CredentialsFile is the GCS service account JSON path. Empty uses default credentials.
	CredentialsFile string
	// MaxUploadBytes caps accepted upload size.
	MaxUploadBytes int64
}

// LoadStorageConfigFromEnv loads storage configuration from environment variables.
func LoadStorageConfigFromEnv() StorageConfig {
	return StorageConfig{
		Backend:         GetEnv("STORAGE_BACKEND", StorageBackendLocal),
		LocalDir:        GetEnv("STORAGE_LOCAL_DIR", "uploads"),
		PublicBaseURL:   GetEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads"),
		Bucket:          GetEnv("GCS_BUCKET", ""),
		CredentialsFile: GetEnv("GCS_CREDENTIALS_FILE", ""),
		MaxUploadBytes:  GetEnvInt64("STORAGE_MAX_UPLOAD_BYTES", 5<<20),
	}
}

// Validate validates storage configuration.
func (c StorageConfig) Validate() error {
	switch c.Backend {
	case StorageBackendLocal:
		if c.LocalDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR is required for local storage")
		}
	case StorageBackendGCS:
		if c.Bucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for gcs storage")
		}
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND: %s (must be: local, gcs)", c.Backend)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("STORAGE_MAX_UPLOAD_BYTES must be greater than 0")
	}
	return nil
}
