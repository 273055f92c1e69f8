package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fileshare/internal/flagx"
	"github.com/dmitrijs2005/fileshare/internal/timex"
)

// JSONConfig is the DTO read from the config file. Absent keys are nil and
// leave the earlier value alone.
type JSONConfig struct {
	Address         *string         `json:"address"`
	BasePath        *string         `json:"base_path"`
	Storage         *string         `json:"storage"`
	MaxUploadSize   *int64          `json:"max_upload_size"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	S3RootUser      *string         `json:"s3_root_user"`
	S3RootPassword  *string         `json:"s3_root_password"`
	S3Bucket        *string         `json:"s3_bucket"`
	S3Region        *string         `json:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint"`
	S3Prefix        *string         `json:"s3_prefix"`
	LogLevel        *string         `json:"log_level"`
	LogFormat       *string         `json:"log_format"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.Address, jc.Address)
	set(&cfg.BasePath, jc.BasePath)
	set(&cfg.Storage, jc.Storage)
	set(&cfg.MaxUploadSize, jc.MaxUploadSize)
	if jc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
	set(&cfg.S3RootUser, jc.S3RootUser)
	set(&cfg.S3RootPassword, jc.S3RootPassword)
	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	set(&cfg.S3Prefix, jc.S3Prefix)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)

	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
