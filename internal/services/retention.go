package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crabfit/internal/domain"
)

type retentionService struct {
	adaptor   domain.Adaptor
	logger    *slog.Logger
	now       func() time.Time
	retention time.Duration
}

// NewRetentionService creates a RetentionService that removes events not
// visited for longer than retention.
func NewRetentionService(adaptor domain.Adaptor, logger *slog.Logger, retention time.Duration) domain.RetentionService {
	return &retentionService{
		adaptor:   adaptor,
		logger:    logger,
		now:       time.Now,
		retention: retention,
	}
}

// Cleanup returns the number of events and people removed. The usage
// counters are lifetime totals and are left as they are.
func (s *retentionService) Cleanup(ctx context.Context) (*domain.Stats, error) {
	cutoff := s.now().Add(-s.retention)
	removed, err := s.adaptor.DeleteEvents(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("delete events: %w", err)
	}
	s.logger.Info("cleanup complete",
		"cutoff", cutoff,
		"events_removed", removed.EventCount,
		"people_removed", removed.PersonCount,
	)
	return removed, nil
}
