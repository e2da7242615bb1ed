package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crabfit/internal/domain"
)

type personService struct {
	adaptor        domain.Adaptor
	hasher         domain.PasswordHasher
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewPersonService creates a PersonService. Passwords are optional: a person
// registered without one can be accessed by name alone.
func NewPersonService(adaptor domain.Adaptor, hasher domain.PasswordHasher, logger *slog.Logger, timeout time.Duration) domain.PersonService {
	return &personService{
		adaptor:        adaptor,
		hasher:         hasher,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *personService) Login(ctx context.Context, eventID, name, password string) (*domain.Person, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, domain.ErrInvalidInput
	}

	existing, err := s.findPerson(ctx, eventID, name)
	if err != nil && !errors.Is(err, domain.ErrPersonNotFound) {
		return nil, false, err
	}
	if existing != nil {
		return s.signIn(existing, password)
	}

	var hash string
	if password != "" {
		hash, err = s.hasher.Hash(password)
		if err != nil {
			return nil, false, err
		}
	}
	person, err := s.adaptor.CreatePerson(ctx, eventID, domain.NewPerson(name, hash, s.now().UTC()))
	if errors.Is(err, domain.ErrPersonExists) {
		// Registered by a concurrent login since the lookup above.
		existing, err := s.findPerson(ctx, eventID, name)
		if err != nil {
			return nil, false, err
		}
		return s.signIn(existing, password)
	}
	if err != nil {
		return nil, false, fmt.Errorf("create person: %w", err)
	}
	if person == nil {
		return nil, false, domain.ErrEventNotFound
	}

	if _, err := s.adaptor.IncrementStatPersonCount(ctx); err != nil {
		s.logger.Warn("failed to increment person count", "event_id", eventID, "error", err)
	}
	return person, true, nil
}

func (s *personService) signIn(person *domain.Person, password string) (*domain.Person, bool, error) {
	if err := s.checkPassword(person, password); err != nil {
		return nil, false, err
	}
	return person, false, nil
}

func (s *personService) UpdateAvailability(ctx context.Context, eventID, name, password string, availability domain.Slots) (*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.findPerson(ctx, eventID, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(existing, password); err != nil {
		return nil, err
	}

	if availability == nil {
		availability = domain.Slots{}
	}
	updated := *existing
	updated.Availability = availability
	person, err := s.adaptor.UpsertPerson(ctx, eventID, &updated)
	if err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	if person == nil {
		return nil, domain.ErrEventNotFound
	}
	return person, nil
}

func (s *personService) findPerson(ctx context.Context, eventID, name string) (*domain.Person, error) {
	people, err := s.adaptor.GetPeople(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get people: %w", err)
	}
	if people == nil {
		return nil, domain.ErrEventNotFound
	}
	for _, p := range people {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, domain.ErrPersonNotFound
}

func (s *personService) checkPassword(person *domain.Person, password string) error {
	if person.PasswordHash == "" {
		return nil
	}
	return s.hasher.Compare(person.PasswordHash, password)
}
