// Package config handles configuration for the reference file-sharing
// service: defaults, an optional JSON overlay (-c/-config) and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StorageMemory = "memory"
	StorageS3     = "s3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the service.
//
// Fields:
//   - Address: HTTP bind address.
//   - BasePath: path the protocol is served under; file ids follow it.
//   - Storage: "memory" or "s3".
//   - MaxUploadSize: upper bound of an upload body in bytes.
//   - ShutdownTimeout: grace period for in-flight requests on exit.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3Prefix: object storage settings.
type Config struct {
	Address         string
	BasePath        string
	Storage         string
	MaxUploadSize   int64
	ShutdownTimeout time.Duration
	S3RootUser      string
	S3RootPassword  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3Prefix        string
	LogLevel        string
	LogFormat       string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the S3 credentials are MinIO's local defaults, override them.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.BasePath = "/files/"
	c.Storage = StorageMemory
	c.MaxUploadSize = 32 << 20
	c.ShutdownTimeout = 5 * time.Second
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "fileshare"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3Prefix = "files/"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Storage != StorageMemory && c.Storage != StorageS3 {
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	}
	if !strings.HasPrefix(c.BasePath, "/") || !strings.HasSuffix(c.BasePath, "/") {
		return fmt.Errorf("%w: base path %q must start and end with /", ErrInvalidConfig, c.BasePath)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("%w: max upload size must be positive", ErrInvalidConfig)
	}
	if c.Storage == StorageS3 && c.S3Bucket == "" {
		return fmt.Errorf("%w: s3 storage needs a bucket", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then the JSON file named
// in args, then the flags in args. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
