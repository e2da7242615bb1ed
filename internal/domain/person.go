package domain

import (
	"time"
)

// Person is someone who registered availability against an event.
// A person is identified by Name within its owning event.
type Person struct {
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Availability Slots     `json:"availability"`
}

// NewPerson returns a new Person with no availability.
func NewPerson(name, passwordHash string, createdAt time.Time) *Person {
	return &Person{
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		Availability: Slots{},
	}
}

// PasswordHasher hashes and verifies person passwords.
// An empty hash means the person registered without a password.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
