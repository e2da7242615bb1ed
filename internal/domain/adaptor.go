package domain

import (
	"context"
	"time"
)

// Adaptor is the storage contract the application layer works against.
//
// Lookups report absence with a nil result, never with an error. Every
// returned error is a *Error of kind KindStore or KindTransaction.
type Adaptor interface {
	// GetStats returns the running counters. When no stats row exists yet a
	// zeroed Stats is returned and nothing is written.
	GetStats(ctx context.Context) (*Stats, error)
	// IncrementStatEventCount adds one to the event counter, creating the stats
	// row if needed, and returns the new value.
	IncrementStatEventCount(ctx context.Context) (int64, error)
	// IncrementStatPersonCount adds one to the person counter, creating the
	// stats row if needed, and returns the new value.
	IncrementStatPersonCount(ctx context.Context) (int64, error)

	// GetPeople returns the people registered against eventID in no
	// particular order. The slice is nil when the event does not exist and
	// empty when it exists without people.
	GetPeople(ctx context.Context, eventID string) ([]*Person, error)
	// UpsertPerson inserts the person, or overwrites PasswordHash, CreatedAt
	// and Availability of the person with the same name. It returns nil and
	// writes nothing when eventID does not exist.
	UpsertPerson(ctx context.Context, eventID string, person *Person) (*Person, error)
	// CreatePerson inserts the person only if the name is free. A taken name
	// fails with a store error that also matches ErrPersonExists and leaves
	// the stored person untouched. Returns nil when eventID does not exist.
	CreatePerson(ctx context.Context, eventID string, person *Person) (*Person, error)

	// GetEvent reads an event and touches it: the stored VisitedAt is moved
	// forward to now before returning. The returned Event carries the values
	// as read, before the touch. Returns nil when the event does not exist.
	GetEvent(ctx context.Context, id string) (*Event, error)
	// CreateEvent stores a new event as given. A duplicate id fails with a
	// store error that also matches ErrEventExists.
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	// DeleteEvents removes, in one transaction, every event last visited
	// before cutoff together with its people. It returns the number of rows
	// removed, not the remaining totals, and does not change the counters.
	DeleteEvents(ctx context.Context, cutoff time.Time) (*Stats, error)
}
