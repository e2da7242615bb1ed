package domain

import (
	"time"
)

// Event is a proposed meeting: a set of candidate times in a timezone.
// ID is supplied by the caller and never changes after creation.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	VisitedAt time.Time `json:"visited_at"`
	Times     Slots     `json:"times"`
	Timezone  string    `json:"timezone"`
}

// NewEvent returns a new Event with CreatedAt and VisitedAt both set to now.
func NewEvent(id, name string, times Slots, timezone string, now time.Time) *Event {
	return &Event{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		VisitedAt: now,
		Times:     times,
		Timezone:  timezone,
	}
}
