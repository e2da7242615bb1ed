package sqladaptor

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crabfit/internal/domain"
)

const eventColumns = `id, name, created_at, visited_at, times, timezone`

type eventRow struct {
	ID        string       `db:"id"`
	Name      string       `db:"name"`
	CreatedAt timestamp    `db:"created_at"`
	VisitedAt timestamp    `db:"visited_at"`
	Times     domain.Slots `db:"times"`
	Timezone  string       `db:"timezone"`
}

func (r *eventRow) toDomain() *domain.Event {
	return &domain.Event{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt.Time,
		VisitedAt: r.VisitedAt.Time,
		Times:     r.Times,
		Timezone:  r.Timezone,
	}
}

func (a *Adaptor) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	var row eventRow
	err := a.db.GetContext(ctx, &row, a.db.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get event", err)
	}

	event := row.toDomain()
	if err := a.touchEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// touchEvent moves the stored visited_at of event forward to now. The stored
// value always strictly increases, even when the clock has not moved past the
// previous visit. The write is conditional, so a later visit committed by a
// concurrent reader is never overwritten with an earlier one. event itself is
// left unchanged.
func (a *Adaptor) touchEvent(ctx context.Context, event *domain.Event) error {
	visitedAt := a.now().UTC().Truncate(time.Microsecond)
	if !visitedAt.After(event.VisitedAt) {
		visitedAt = event.VisitedAt.Truncate(time.Microsecond).Add(time.Microsecond)
	}

	query := `UPDATE events SET visited_at = ? WHERE id = ? AND visited_at < ?`
	arg := a.timeArg(visitedAt)
	if _, err := a.db.ExecContext(ctx, a.db.Rebind(query), arg, event.ID, arg); err != nil {
		return storeError("touch event", err)
	}
	a.logger.Debug("event touched", "event_id", event.ID, "visited_at", visitedAt)
	return nil
}

func (a *Adaptor) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + eventColumns
	var row eventRow
	err := a.db.GetContext(ctx, &row, a.db.Rebind(query),
		event.ID, event.Name, a.timeArg(event.CreatedAt), a.timeArg(event.VisitedAt), event.Times, event.Timezone)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateEventError(err)
		}
		return nil, storeError("create event", err)
	}
	return row.toDomain(), nil
}
