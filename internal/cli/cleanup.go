package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crabfit/internal/services"
)

// CleanupOptions holds flags for the cleanup command.
type CleanupOptions struct {
	*RootOptions
	OlderThan time.Duration
}

type cleanupResult struct {
	EventsRemoved int64 `json:"events_removed"`
	PeopleRemoved int64 `json:"people_removed"`
}

func (r cleanupResult) String() string {
	return fmt.Sprintf("removed %d events and %d people", r.EventsRemoved, r.PeopleRemoved)
}

// NewCleanupCommand creates the cleanup command.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete events that have not been visited recently",
		Long: `Delete every event not visited within the retention window, together
with the people who responded to it. The deletion runs in a single
transaction: either all stale events go or none do.

Examples:
  crabfit-store cleanup
  crabfit-store cleanup --older-than 720h --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			retention := opts.OlderThan
			if retention <= 0 {
				retention = e.cfg.EventRetention
			}
			removed, err := services.NewRetentionService(e.adaptor, e.logger, retention).Cleanup(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "cleanup failed", err)
			}
			return e.formatter.Success(cleanupResult{
				EventsRemoved: removed.EventCount,
				PeopleRemoved: removed.PersonCount,
			})
		},
	}

	cmd.Flags().DurationVar(&opts.OlderThan, "older-than", 0, "retention window (default $EVENT_RETENTION, 90 days)")

	return cmd
}
