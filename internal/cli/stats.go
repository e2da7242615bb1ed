package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"crabfit/internal/domain"
)

type statsResult struct {
	EventCount  int64 `json:"event_count"`
	PersonCount int64 `json:"person_count"`
}

func newStatsResult(s *domain.Stats) statsResult {
	return statsResult{EventCount: s.EventCount, PersonCount: s.PersonCount}
}

func (r statsResult) String() string {
	return fmt.Sprintf("events: %d\npeople: %d", r.EventCount, r.PersonCount)
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Print the lifetime event and person counters",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			stats, err := e.adaptor.GetStats(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read stats", err)
			}
			return e.formatter.Success(newStatsResult(stats))
		},
	}
}
