package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"crabfit/internal/domain"
)

// fakeAdaptor is an in-memory domain.Adaptor for tests.
type fakeAdaptor struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	people map[string]map[string]*domain.Person
	stats  domain.Stats

	createErrs   []error // returned by successive CreateEvent calls, if set
	incrementErr error
	peopleErr    error
	deleteErr    error
	lastCutoff   time.Time

	// beforeCreatePerson runs at the start of CreatePerson, without the lock.
	beforeCreatePerson func(f *fakeAdaptor)
}

func newFakeAdaptor() *fakeAdaptor {
	return &fakeAdaptor{
		events: make(map[string]*domain.Event),
		people: make(map[string]map[string]*domain.Person),
	}
}

func (f *fakeAdaptor) GetStats(ctx context.Context) (*domain.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.stats
	return &s, nil
}

func (f *fakeAdaptor) IncrementStatEventCount(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	f.stats.EventCount++
	return f.stats.EventCount, nil
}

func (f *fakeAdaptor) IncrementStatPersonCount(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	f.stats.PersonCount++
	return f.stats.PersonCount, nil
}

func (f *fakeAdaptor) GetPeople(ctx context.Context, eventID string) ([]*domain.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.peopleErr != nil {
		return nil, f.peopleErr
	}
	if _, ok := f.events[eventID]; !ok {
		return nil, nil
	}
	out := make([]*domain.Person, 0)
	for _, p := range f.people[eventID] {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAdaptor) UpsertPerson(ctx context.Context, eventID string, person *domain.Person) (*domain.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[eventID]; !ok {
		return nil, nil
	}
	if f.people[eventID] == nil {
		f.people[eventID] = make(map[string]*domain.Person)
	}
	cp := *person
	f.people[eventID][person.Name] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAdaptor) CreatePerson(ctx context.Context, eventID string, person *domain.Person) (*domain.Person, error) {
	if f.beforeCreatePerson != nil {
		f.beforeCreatePerson(f)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[eventID]; !ok {
		return nil, nil
	}
	if _, ok := f.people[eventID][person.Name]; ok {
		return nil, domain.NewStoreError("create person", domain.ErrPersonExists)
	}
	if f.people[eventID] == nil {
		f.people[eventID] = make(map[string]*domain.Person)
	}
	cp := *person
	f.people[eventID][person.Name] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAdaptor) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	out := *e
	e.VisitedAt = e.VisitedAt.Add(time.Microsecond)
	return &out, nil
}

func (f *fakeAdaptor) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if _, ok := f.events[event.ID]; ok {
		return nil, domain.NewStoreError("create event", domain.ErrEventExists)
	}
	cp := *event
	f.events[event.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAdaptor) DeleteEvents(ctx context.Context, cutoff time.Time) (*domain.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCutoff = cutoff
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	removed := &domain.Stats{}
	for id, e := range f.events {
		if e.VisitedAt.Before(cutoff) {
			removed.PersonCount += int64(len(f.people[id]))
			delete(f.people, id)
			delete(f.events, id)
			removed.EventCount++
		}
	}
	return removed, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
