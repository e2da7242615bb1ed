package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crabfit/internal/adapters/auth"
	"crabfit/internal/domain"
)

func newTestPersonService(f *fakeAdaptor, now time.Time) *personService {
	s := NewPersonService(f, auth.NewBcryptHasher(4), discardLogger(), time.Second).(*personService)
	s.now = func() time.Time { return now }
	return s
}

func TestPersonService_Login(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	hasher := auth.NewBcryptHasher(4)
	aliceHash, err := hasher.Hash("secret")
	require.NoError(t, err)

	seed := func(f *fakeAdaptor) {
		f.events["e1"] = &domain.Event{ID: "e1"}
		f.people["e1"] = map[string]*domain.Person{
			"alice": {Name: "alice", PasswordHash: aliceHash, CreatedAt: now.Add(-time.Hour), Availability: domain.Slots{"0900-01012025"}},
			"bob":   {Name: "bob", CreatedAt: now.Add(-time.Hour), Availability: domain.Slots{}},
		}
	}

	tests := []struct {
		name        string
		eventID     string
		person      string
		password    string
		setup       func(f *fakeAdaptor)
		wantCreated bool
		wantErr     error
		wantCount   int64
	}{
		{name: "existing with password", eventID: "e1", person: "alice", password: "secret"},
		{name: "existing with wrong password", eventID: "e1", person: "alice", password: "nope", wantErr: domain.ErrInvalidPassword},
		{name: "existing without password", eventID: "e1", person: "bob", password: "anything"},
		{name: "new person", eventID: "e1", person: "carol", password: "pw", wantCreated: true, wantCount: 1},
		{name: "new person without password", eventID: "e1", person: " dave ", wantCreated: true, wantCount: 1},
		{name: "missing event", eventID: "missing", person: "carol", wantErr: domain.ErrEventNotFound},
		{name: "blank name", eventID: "e1", person: "  ", wantErr: domain.ErrInvalidInput},
		{
			name: "store error", eventID: "e1", person: "carol",
			setup:   func(f *fakeAdaptor) { f.peopleErr = domain.NewStoreError("get people", sql.ErrConnDone) },
			wantErr: domain.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeAdaptor()
			seed(f)
			if tt.setup != nil {
				tt.setup(f)
			}
			s := newTestPersonService(f, now)

			got, created, err := s.Login(ctx, tt.eventID, tt.person, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
			assert.Equal(t, tt.wantCount, f.stats.PersonCount)
			if created {
				assert.Equal(t, now, got.CreatedAt)
				assert.Equal(t, domain.Slots{}, got.Availability)
				stored := f.people[tt.eventID][got.Name]
				require.NotNil(t, stored)
				if tt.password != "" {
					assert.NoError(t, hasher.Compare(stored.PasswordHash, tt.password))
				} else {
					assert.Empty(t, stored.PasswordHash)
				}
			}
		})
	}
}

func TestPersonService_Login_concurrent_registration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	hasher := auth.NewBcryptHasher(4)
	winnerHash, err := hasher.Hash("first")
	require.NoError(t, err)

	newFake := func() *fakeAdaptor {
		f := newFakeAdaptor()
		f.events["e1"] = &domain.Event{ID: "e1"}
		// Another login registers carol between the lookup and the insert.
		f.beforeCreatePerson = func(f *fakeAdaptor) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.people["e1"] = map[string]*domain.Person{
				"carol": {Name: "carol", PasswordHash: winnerHash, CreatedAt: now.Add(-time.Second), Availability: domain.Slots{}},
			}
		}
		return f
	}

	t.Run("same password signs in", func(t *testing.T) {
		f := newFake()
		got, created, err := newTestPersonService(f, now).Login(ctx, "e1", "carol", "first")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, now.Add(-time.Second), got.CreatedAt)
		assert.Zero(t, f.stats.PersonCount)
	})

	t.Run("different password is rejected and nothing is overwritten", func(t *testing.T) {
		f := newFake()
		got, created, err := newTestPersonService(f, now).Login(ctx, "e1", "carol", "second")
		assert.True(t, errors.Is(err, domain.ErrInvalidPassword))
		assert.False(t, created)
		assert.Nil(t, got)
		assert.Equal(t, winnerHash, f.people["e1"]["carol"].PasswordHash)
		assert.Zero(t, f.stats.PersonCount)
	})
}

func TestPersonService_UpdateAvailability(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	createdAt := now.Add(-24 * time.Hour)
	hasher := auth.NewBcryptHasher(4)
	aliceHash, err := hasher.Hash("secret")
	require.NoError(t, err)

	newFake := func() *fakeAdaptor {
		f := newFakeAdaptor()
		f.events["e1"] = &domain.Event{ID: "e1"}
		f.people["e1"] = map[string]*domain.Person{
			"alice": {Name: "alice", PasswordHash: aliceHash, CreatedAt: createdAt, Availability: domain.Slots{"0900-01012025"}},
		}
		return f
	}

	t.Run("success keeps created_at", func(t *testing.T) {
		f := newFake()
		s := newTestPersonService(f, now)
		got, err := s.UpdateAvailability(ctx, "e1", "alice", "secret", domain.Slots{"1000-01012025"})
		require.NoError(t, err)
		assert.Equal(t, domain.Slots{"1000-01012025"}, got.Availability)
		assert.Equal(t, createdAt, got.CreatedAt)
		assert.Equal(t, aliceHash, f.people["e1"]["alice"].PasswordHash)
		assert.Zero(t, f.stats.PersonCount, "updates do not count as new people")
	})

	t.Run("nil availability clears", func(t *testing.T) {
		f := newFake()
		s := newTestPersonService(f, now)
		got, err := s.UpdateAvailability(ctx, "e1", "alice", "secret", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.Slots{}, got.Availability)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFake()
		s := newTestPersonService(f, now)
		_, err := s.UpdateAvailability(ctx, "e1", "alice", "nope", domain.Slots{"1000-01012025"})
		assert.True(t, errors.Is(err, domain.ErrInvalidPassword))
		assert.Equal(t, domain.Slots{"0900-01012025"}, f.people["e1"]["alice"].Availability)
	})

	t.Run("unknown person", func(t *testing.T) {
		s := newTestPersonService(newFake(), now)
		_, err := s.UpdateAvailability(ctx, "e1", "zed", "", domain.Slots{})
		assert.True(t, errors.Is(err, domain.ErrPersonNotFound))
	})

	t.Run("missing event", func(t *testing.T) {
		s := newTestPersonService(newFake(), now)
		_, err := s.UpdateAvailability(ctx, "missing", "alice", "secret", domain.Slots{})
		assert.True(t, errors.Is(err, domain.ErrEventNotFound))
	})
}
