package sqladaptor

import (
	"context"
	"database/sql"
	"errors"

	"crabfit/internal/domain"
)

// statsRowID is the primary key of the singleton stats row.
const statsRowID = 1

type statsRow struct {
	EventCount  int64 `db:"event_count"`
	PersonCount int64 `db:"person_count"`
}

func (a *Adaptor) GetStats(ctx context.Context) (*domain.Stats, error) {
	query := `SELECT event_count, person_count FROM stats WHERE id = ?`
	var row statsRow
	err := a.db.GetContext(ctx, &row, a.db.Rebind(query), statsRowID)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.Stats{}, nil
	}
	if err != nil {
		return nil, storeError("get stats", err)
	}
	return &domain.Stats{EventCount: row.EventCount, PersonCount: row.PersonCount}, nil
}

func (a *Adaptor) IncrementStatEventCount(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO stats (id, event_count, person_count)
		VALUES (?, 1, 0)
		ON CONFLICT (id) DO UPDATE SET event_count = stats.event_count + 1
		RETURNING event_count
	`
	var n int64
	if err := a.db.GetContext(ctx, &n, a.db.Rebind(query), statsRowID); err != nil {
		return 0, storeError("increment event count", err)
	}
	return n, nil
}

func (a *Adaptor) IncrementStatPersonCount(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO stats (id, event_count, person_count)
		VALUES (?, 0, 1)
		ON CONFLICT (id) DO UPDATE SET person_count = stats.person_count + 1
		RETURNING person_count
	`
	var n int64
	if err := a.db.GetContext(ctx, &n, a.db.Rebind(query), statsRowID); err != nil {
		return 0, storeError("increment person count", err)
	}
	return n, nil
}
