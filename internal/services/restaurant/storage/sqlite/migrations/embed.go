package migrations

import "embed"

// FS contains embedded SQLite migrations for restaurant storage.
//
//go:embed *.sql
var FS embed.FS
