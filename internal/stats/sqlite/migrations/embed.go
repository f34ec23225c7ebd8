package migrations

import "embed"

// FS contains embedded SQLite migrations for the win tally.
//
//go:embed *.sql
var FS embed.FS
