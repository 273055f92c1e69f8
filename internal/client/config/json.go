package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fileshare/internal/flagx"
	"github.com/dmitrijs2005/fileshare/internal/timex"
)

// JSONConfig is the on-disk form of Config. Pointer fields tell an absent
// key from a zero value.
type JSONConfig struct {
	Endpoint         *string         `json:"endpoint"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	LedgerPath       *string         `json:"ledger_path"`
	DownloadDir      *string         `json:"download_dir"`
	RollbackRejected *bool           `json:"rollback_rejected"`
	LogLevel         *string         `json:"log_level"`
	LogFormat        *string         `json:"log_format"`
}

// parseJSON overlays cfg with the file named by -c/-config in args.
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

	jc.apply(cfg)
	return nil
}

func (jc JSONConfig) apply(cfg *Config) {
	if jc.Endpoint != nil {
		cfg.Endpoint = *jc.Endpoint
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LedgerPath != nil {
		cfg.LedgerPath = *jc.LedgerPath
	}
	if jc.DownloadDir != nil {
		cfg.DownloadDir = *jc.DownloadDir
	}
	if jc.RollbackRejected != nil {
		cfg.RollbackRejected = *jc.RollbackRejected
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
}
