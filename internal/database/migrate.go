package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates the events, people and stats tables if they don't exist.
// It is idempotent and meant to be run once at startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var file string
	switch db.DriverName() {
	case DriverPostgres:
		file = "schema/postgres.sql"
	case DriverSQLite:
		file = "schema/sqlite.sql"
	default:
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}

	schema, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("migrate: read %s: %w", file, err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("migrate: apply %s: %w", file, err)
	}
	return nil
}
