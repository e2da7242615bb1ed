// Package database opens the backing store named by a connection URL and
// applies the schema the storage adaptor expects.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ParseURL maps a DATABASE_URL onto a driver name and data source name.
//
//	postgres://... or postgresql://...  -> postgres, unchanged
//	sqlite://path/to/file.db            -> sqlite3, path/to/file.db
//	file:..., :memory:                  -> sqlite3, unchanged
func ParseURL(raw string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		dsn = strings.TrimPrefix(raw, "sqlite://")
		if dsn == "" {
			return "", "", fmt.Errorf("database url %q: missing sqlite path", raw)
		}
		return DriverSQLite, dsn, nil
	case strings.HasPrefix(raw, "file:"), raw == ":memory:":
		return DriverSQLite, raw, nil
	}
	return "", "", fmt.Errorf("database url %q: unsupported scheme", redact(raw))
}

// Open connects to the store named by databaseURL and verifies the
// connection. Postgres connections are pooled up to maxOpenConns; SQLite is
// limited to a single connection since it only supports one writer.
func Open(ctx context.Context, databaseURL string, maxOpenConns int, logger *slog.Logger) (*sqlx.DB, error) {
	driver, dsn, err := ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	switch driver {
	case DriverSQLite:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	default:
		if maxOpenConns > 0 {
			db.SetMaxOpenConns(maxOpenConns)
		}
	}

	logger.Info("connected to database", "driver", driver, "url", redact(databaseURL))
	return db, nil
}

func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
