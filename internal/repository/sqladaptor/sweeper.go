package sqladaptor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crabfit/internal/domain"
)

// DeleteEvents runs the retention sweep in a single transaction:
//
//  1. select the events last visited before cutoff
//  2. delete the people of each selected event
//  3. delete the events last visited before cutoff
//
// Step 3 filters on visited_at again instead of the ids from step 1, so an
// event touched after step 1 survives. People are deleted explicitly rather
// than through a cascade so every backend behaves the same. Any failure rolls
// the whole sweep back.
func (a *Adaptor) DeleteEvents(ctx context.Context, cutoff time.Time) (*domain.Stats, error) {
	sweepID := uuid.NewString()
	logger := a.logger.With("sweep_id", sweepID)
	start := time.Now()

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, transactionError("delete events: begin", err)
	}
	defer tx.Rollback() // No-op if committed

	var eventIDs []string
	err = tx.SelectContext(ctx, &eventIDs, tx.Rebind(`SELECT id FROM events WHERE visited_at < ?`), a.cutoffArg(cutoff))
	if err != nil {
		return nil, transactionError("delete events: select stale events", err)
	}

	var peopleDeleted int64
	for _, id := range eventIDs {
		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM people WHERE event_id = ?`), id)
		if err != nil {
			return nil, transactionError("delete events: delete people", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, transactionError("delete events: delete people", err)
		}
		peopleDeleted += n
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM events WHERE visited_at < ?`), a.cutoffArg(cutoff))
	if err != nil {
		return nil, transactionError("delete events: delete events", err)
	}
	eventsDeleted, err := result.RowsAffected()
	if err != nil {
		return nil, transactionError("delete events: delete events", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, transactionError("delete events: commit", err)
	}

	logger.Info("retention sweep complete",
		"cutoff", cutoff,
		"events_removed", eventsDeleted,
		"people_removed", peopleDeleted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &domain.Stats{EventCount: eventsDeleted, PersonCount: peopleDeleted}, nil
}
