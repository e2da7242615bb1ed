package domain

import (
	"context"
)

// EventService creates and reads events on behalf of the application layer
// and keeps the event counter in step with creations.
type EventService interface {
	CreateEvent(ctx context.Context, name string, times Slots, timezone string) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	GetPeople(ctx context.Context, eventID string) ([]*Person, error)
}

// PersonService registers people against events and updates their availability.
type PersonService interface {
	// Login returns the named person after checking the password, registering
	// them first when they are new to the event.
	Login(ctx context.Context, eventID, name, password string) (person *Person, created bool, err error)
	UpdateAvailability(ctx context.Context, eventID, name, password string, availability Slots) (*Person, error)
}

// RetentionService removes events nobody has visited within the retention period.
type RetentionService interface {
	Cleanup(ctx context.Context) (*Stats, error)
}
