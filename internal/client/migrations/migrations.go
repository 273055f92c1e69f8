// Package migrations embeds the SQL migrations of the client's local ledger.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
