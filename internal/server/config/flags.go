package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/fileshare/internal/flagx"
)

// parseFlags populates cfg from command-line flags.
//
// Supported flags:
//
//	-a string      HTTP bind address (e.g., ":8080")
//	-base string   base path of the protocol
//	-s string      storage backend: memory or s3
//	-m int         max upload size in bytes
//	-w duration    shutdown grace period
//	-u string      S3 root user
//	-p string      S3 root password
//	-b string      S3 bucket name
//	-g string      S3 region
//	-e string      S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-log-level, -log-format
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-base", "-s", "-m", "-w", "-u", "-p", "-b", "-g", "-e", "-log-level", "-log-format"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	fs.StringVar(&cfg.BasePath, "base", cfg.BasePath, "base path of the file endpoint")
	fs.StringVar(&cfg.Storage, "s", cfg.Storage, "storage backend (memory|s3)")
	fs.Int64Var(&cfg.MaxUploadSize, "m", cfg.MaxUploadSize, "max upload size in bytes")
	fs.DurationVar(&cfg.ShutdownTimeout, "w", cfg.ShutdownTimeout, "shutdown grace period")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
