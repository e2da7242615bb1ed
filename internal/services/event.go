package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"crabfit/internal/domain"
)

// maxIDAttempts bounds how many random suffixes CreateEvent tries before
// giving up on an id collision.
const maxIDAttempts = 3

type eventService struct {
	adaptor        domain.Adaptor
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewEventService creates an EventService on top of the storage adaptor.
func NewEventService(adaptor domain.Adaptor, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		adaptor:        adaptor,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, name string, times domain.Slots, timezone string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" || len(times) == 0 || strings.TrimSpace(timezone) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := s.now().UTC()
	var created *domain.Event
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := generateEventID(name)
		if err != nil {
			return nil, fmt.Errorf("generate event id: %w", err)
		}
		created, err = s.adaptor.CreateEvent(ctx, domain.NewEvent(id, name, times, timezone, now))
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrEventExists) || attempt == maxIDAttempts-1 {
			return nil, fmt.Errorf("create event: %w", err)
		}
	}

	// The counters are usage statistics; a failed increment does not undo
	// the event.
	if _, err := s.adaptor.IncrementStatEventCount(ctx); err != nil {
		s.logger.Warn("failed to increment event count", "event_id", created.ID, "error", err)
	}
	return created, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.adaptor.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) GetPeople(ctx context.Context, eventID string) ([]*domain.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	people, err := s.adaptor.GetPeople(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get people: %w", err)
	}
	if people == nil {
		return nil, domain.ErrEventNotFound
	}
	return people, nil
}

const eventIDSuffixDigits = 6

var slugFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// generateEventID turns "Café Meetup!" into "cafe-meetup-482913".
func generateEventID(name string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%0*d", slugify(name), eventIDSuffixDigits, n.Int64()), nil
}

func slugify(name string) string {
	folded, _, err := transform.String(slugFold, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "event"
	}
	return slug
}
