package storage

import (
	"fmt"
)

// Config contains configuration for the object storage client.
type Config struct {
	// S3 connection settings.
	Endpoint  string `hcl:"endpoint,optional"` // Custom endpoint for MinIO or other S3-compatible services
	Region    string `hcl:"region"`
	Bucket    string `hcl:"bucket"`
	AccessKey string `hcl:"access_key,optional"`
	SecretKey string `hcl:"secret_key,optional"`

	// UploadExpirySeconds bounds how long a minted upload credential stays
	// usable. Kept short so an abandoned authorization cannot be replayed
	// indefinitely.
	UploadExpirySeconds int `hcl:"upload_expiry_seconds,optional"`

	// Retry and timeout tuning.
	RetryMaxAttempts      int `hcl:"retry_max_attempts,optional"`
	RequestTimeoutSeconds int `hcl:"request_timeout_seconds,optional"`

	// TLS settings.
	InsecureSkipVerify bool `hcl:"insecure_skip_verify,optional"` // Testing only
}

// Validate validates the storage configuration.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.UploadExpirySeconds < 0 {
		return fmt.Errorf("upload_expiry_seconds must be positive")
	}
	return nil
}

// SetDefaults sets default values for optional configuration fields.
func (c *Config) SetDefaults() {
	if c.UploadExpirySeconds == 0 {
		c.UploadExpirySeconds = 300
	}
	if c.RetryMaxAttempts == 0 {
		c.RetryMaxAttempts = 3
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = 30
	}
}
