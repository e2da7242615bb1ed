package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"crabfit/internal/domain"
	"crabfit/internal/services"
)

// EventOptions holds flags for the event create command.
type EventOptions struct {
	*RootOptions
	Name     string
	Times    []string
	Timezone string
}

type eventResult struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	VisitedAt time.Time      `json:"visited_at"`
	Times     domain.Slots   `json:"times"`
	Timezone  string         `json:"timezone"`
	People    []personResult `json:"people,omitempty"`
}

func newEventResult(e *domain.Event) eventResult {
	return eventResult{
		ID:        e.ID,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
		VisitedAt: e.VisitedAt,
		Times:     e.Times,
		Timezone:  e.Timezone,
	}
}

func (r eventResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %q  %s  %d slots  visited %s", r.ID, r.Name, r.Timezone, len(r.Times), r.VisitedAt.Format(time.RFC3339))
	for _, p := range r.People {
		fmt.Fprintf(&b, "\n  %s", p)
	}
	return b.String()
}

// NewEventCommand creates the event command group.
func NewEventCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Create and inspect events",
	}
	cmd.AddCommand(newEventCreateCommand(rootOpts))
	cmd.AddCommand(newEventShowCommand(rootOpts))
	return cmd
}

func newEventCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Long: `Create an event with a generated id and print it.

Examples:
  crabfit-store event create --name "Team lunch" --times 1200-06052025,1215-06052025 --timezone Pacific/Auckland`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			svc := services.NewEventService(e.adaptor, e.logger, e.cfg.RequestTimeout)
			event, err := svc.CreateEvent(cmd.Context(), opts.Name, domain.Slots(opts.Times), opts.Timezone)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidInput) {
					return WrapExitError(ExitCommandError, "name, times and timezone are required", err)
				}
				return WrapExitError(ExitFailure, "failed to create event", err)
			}
			return e.formatter.Success(newEventResult(event))
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "event name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringSliceVar(&opts.Times, "times", nil, "comma separated time slots (required)")
	_ = cmd.MarkFlagRequired("times")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "UTC", "IANA timezone of the event")

	return cmd
}

func newEventShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <event-id>",
		Short:         "Print an event and its people",
		Long:          "Print an event and its people. Reading an event counts as a visit.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			svc := services.NewEventService(e.adaptor, e.logger, e.cfg.RequestTimeout)
			event, err := svc.GetEvent(cmd.Context(), args[0])
			if err != nil {
				return eventLookupError(err)
			}
			people, err := svc.GetPeople(cmd.Context(), args[0])
			if err != nil {
				return eventLookupError(err)
			}

			result := newEventResult(event)
			for _, p := range people {
				result.People = append(result.People, newPersonResult(p))
			}
			return e.formatter.Success(result)
		},
	}
}

func eventLookupError(err error) error {
	if errors.Is(err, domain.ErrEventNotFound) {
		return WrapExitError(ExitFailure, "event not found", err)
	}
	return WrapExitError(ExitFailure, "failed to read event", err)
}
