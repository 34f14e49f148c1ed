// Package migrations embeds the goose schema migrations applied at
// server startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
