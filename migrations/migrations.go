// Package migrations expone el esquema SQL embebido en el binario.
package migrations

import "embed"

// FS archivos *.sql aplicados por postgres.Migrate.
//
//go:embed *.sql
var FS embed.FS
