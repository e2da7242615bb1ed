// Package sqladaptor implements domain.Adaptor on a relational store through
// sqlx. The same queries run on Postgres and SQLite; sqlx rebinds the `?`
// placeholders to the driver's syntax.
package sqladaptor

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"crabfit/internal/database"
	"crabfit/internal/domain"
)

var _ domain.Adaptor = (*Adaptor)(nil)

// Adaptor owns the connection pool and issues every read and write.
type Adaptor struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Adaptor.
type Option func(*Adaptor)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adaptor) {
		a.logger = logger
	}
}

// WithClock sets the clock used to touch events on read. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Adaptor) {
		a.now = now
	}
}

// New returns an Adaptor over db. The schema must already be applied.
func New(db *sqlx.DB, opts ...Option) *Adaptor {
	a := &Adaptor{
		db:     db,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(query string) string
}

func eventExists(ctx context.Context, q queryer, id string) (bool, error) {
	var one int
	err := sqlx.GetContext(ctx, q, &one, q.Rebind(`SELECT 1 FROM events WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// sqliteTimeLayout is fixed width so that text comparison in SQLite orders
// timestamps chronologically.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000"

// timeArg converts t into the bind value stored for the current driver.
// Timestamps are kept in UTC at microsecond precision on every backend.
func (a *Adaptor) timeArg(t time.Time) any {
	t = t.UTC().Truncate(time.Microsecond)
	if a.db.DriverName() == database.DriverSQLite {
		return t.Format(sqliteTimeLayout)
	}
	return t
}

// cutoffArg is timeArg rounded up, so that a stored microsecond value v
// satisfies v < cutoffArg exactly when v < cutoff.
func (a *Adaptor) cutoffArg(cutoff time.Time) any {
	c := cutoff.UTC()
	if t := c.Truncate(time.Microsecond); t.Before(c) {
		c = t.Add(time.Microsecond)
	}
	return a.timeArg(c)
}
