// Package migrations holds the goose SQL migrations for the Yatube schema.
package migrations

import "embed"

// FS contains every *.sql migration, for goose.SetBaseFS
//
//go:embed *.sql
var FS embed.FS
