// Package migrations provides the embedded database schema.
package migrations

import (
	_ "embed"
)

// InitialSQL creates every table. Statements are idempotent so it runs on each start.
//
//go:embed sql/001_initial.sql
var InitialSQL string
