package migrations

import "embed"

// Files stores forward-only SQL migrations for the reference table store.
//
//go:embed *.sql
var Files embed.FS
