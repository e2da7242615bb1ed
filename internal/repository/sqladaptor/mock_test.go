package sqladaptor

import (
	"database/sql/driver"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newMockAdaptor returns an Adaptor speaking the Postgres dialect to sqlmock.
func newMockAdaptor(t *testing.T, opts ...Option) (*Adaptor, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	return New(sqlx.NewDb(mockDB, "postgres"), opts...), mock
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// sameInstant matches a time.Time bind argument at the same instant.
type sameInstant time.Time

func (w sameInstant) Match(v driver.Value) bool {
	got, ok := v.(time.Time)
	return ok && got.Equal(time.Time(w))
}

var (
	t0 = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	t1 = time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
)
