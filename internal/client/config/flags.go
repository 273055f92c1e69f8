package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/fileshare/internal/flagx"
)

var (
	valueFlags = []string{"-e", "-t", "-l", "-d", "-log-level", "-log-format"}
	boolFlags  = []string{"-r"}
)

// parseFlags populates cfg from the flags it knows about. Everything else in
// args is ignored, so -c and REPL arguments pass through untouched.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.Filter(args, valueFlags, boolFlags)

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.Endpoint, "e", cfg.Endpoint, "service endpoint, file ids are appended to it")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.LedgerPath, "l", cfg.LedgerPath, "ledger database path, empty disables it")
	fs.StringVar(&cfg.DownloadDir, "d", cfg.DownloadDir, "download directory")
	fs.BoolVar(&cfg.RollbackRejected, "r", cfg.RollbackRejected, "do not count files rejected by the total ceiling")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
