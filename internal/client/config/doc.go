// Package config loads runtime configuration for the fileshare client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-e string       service endpoint; file ids are appended to it
//	-t duration     per-request timeout, e.g. 30s
//	-l string       ledger database path, empty disables the ledger
//	-d string       directory downloads are written to
//	-r              subtract files rejected by the total ceiling from the total
//	-log-level      debug, info, warn or error
//	-log-format     text or json
//
// # JSON schema
//
// Durations are timex.Duration, so "30s" and integer nanoseconds both work.
// Missing keys keep their earlier value.
//
//	{
//	  "endpoint": "http://127.0.0.1:8080/files/",
//	  "request_timeout": "30s",
//	  "ledger_path": "fileshare.db",
//	  "download_dir": "downloads",
//	  "rollback_rejected": false,
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
