package sqladaptor

import (
	"context"
	"database/sql"
	"errors"

	"crabfit/internal/domain"
)

const personColumns = `name, password_hash, created_at, availability`

type personRow struct {
	Name         string       `db:"name"`
	PasswordHash string       `db:"password_hash"`
	CreatedAt    timestamp    `db:"created_at"`
	Availability domain.Slots `db:"availability"`
}

func (r *personRow) toDomain() *domain.Person {
	return &domain.Person{
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.Time,
		Availability: r.Availability,
	}
}

func (a *Adaptor) GetPeople(ctx context.Context, eventID string) ([]*domain.Person, error) {
	exists, err := eventExists(ctx, a.db, eventID)
	if err != nil {
		return nil, storeError("get people", err)
	}
	if !exists {
		return nil, nil
	}

	query := `SELECT ` + personColumns + ` FROM people WHERE event_id = ?`
	var rows []personRow
	if err := a.db.SelectContext(ctx, &rows, a.db.Rebind(query), eventID); err != nil {
		return nil, storeError("get people", err)
	}
	people := make([]*domain.Person, 0, len(rows))
	for i := range rows {
		people = append(people, rows[i].toDomain())
	}
	return people, nil
}

// UpsertPerson checks the event and writes the person in one transaction, so
// a person row is never written for an event that does not exist.
func (a *Adaptor) UpsertPerson(ctx context.Context, eventID string, person *domain.Person) (*domain.Person, error) {
	query := `
		INSERT INTO people (` + personColumns + `, event_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name, event_id) DO UPDATE
		SET password_hash = excluded.password_hash,
			created_at = excluded.created_at,
			availability = excluded.availability
		RETURNING ` + personColumns
	return a.writePerson(ctx, "upsert person", query, eventID, person)
}

// CreatePerson is UpsertPerson without the overwrite: when the name is
// already registered against the event nothing is written and the store
// error matches domain.ErrPersonExists.
func (a *Adaptor) CreatePerson(ctx context.Context, eventID string, person *domain.Person) (*domain.Person, error) {
	query := `
		INSERT INTO people (` + personColumns + `, event_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name, event_id) DO NOTHING
		RETURNING ` + personColumns
	return a.writePerson(ctx, "create person", query, eventID, person)
}

func (a *Adaptor) writePerson(ctx context.Context, op, query, eventID string, person *domain.Person) (*domain.Person, error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeError(op+": begin", err)
	}
	defer tx.Rollback() // No-op if committed

	exists, err := eventExists(ctx, tx, eventID)
	if err != nil {
		return nil, storeError(op+": check event", err)
	}
	if !exists {
		return nil, nil
	}

	var row personRow
	err = tx.GetContext(ctx, &row, tx.Rebind(query),
		person.Name, person.PasswordHash, a.timeArg(person.CreatedAt), person.Availability, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeError(op, domain.ErrPersonExists)
	}
	if err != nil {
		return nil, storeError(op+": write", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeError(op+": commit", err)
	}
	return row.toDomain(), nil
}
