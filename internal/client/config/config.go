package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the fileshare client.
type Config struct {
	Endpoint         string
	RequestTimeout   time.Duration
	LedgerPath       string
	DownloadDir      string
	RollbackRejected bool
	LogLevel         string
	LogFormat        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Endpoint = "http://127.0.0.1:8080/files/"
	c.RequestTimeout = 30 * time.Second
	c.LedgerPath = "fileshare.db"
	c.DownloadDir = "downloads"
	c.RollbackRejected = false
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: endpoint %q is not an http(s) URL", ErrInvalidConfig, c.Endpoint)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout %s", ErrInvalidConfig, c.RequestTimeout)
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("%w: empty download dir", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig applies defaults, then the JSON file named in args (if any),
// then the flags in args. args excludes the program name.
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
