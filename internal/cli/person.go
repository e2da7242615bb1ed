package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crabfit/internal/adapters/auth"
	"crabfit/internal/domain"
	"crabfit/internal/services"
)

// PersonOptions holds flags for the person commands.
type PersonOptions struct {
	*RootOptions
	Event        string
	Name         string
	Password     string
	Availability []string
}

type personResult struct {
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	Availability domain.Slots `json:"availability"`
	Created      bool         `json:"created,omitempty"`
}

func newPersonResult(p *domain.Person) personResult {
	return personResult{
		Name:         p.Name,
		CreatedAt:    p.CreatedAt,
		Availability: p.Availability,
	}
}

func (r personResult) String() string {
	return fmt.Sprintf("%s  %d slots  joined %s", r.Name, len(r.Availability), r.CreatedAt.Format(time.RFC3339))
}

// NewPersonCommand creates the person command group.
func NewPersonCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Register people and record their availability",
	}
	cmd.AddCommand(newPersonLoginCommand(rootOpts))
	cmd.AddCommand(newPersonAvailabilityCommand(rootOpts))
	return cmd
}

func addPersonFlags(cmd *cobra.Command, opts *PersonOptions) {
	cmd.Flags().StringVar(&opts.Event, "event", "", "event id (required)")
	_ = cmd.MarkFlagRequired("event")
	cmd.Flags().StringVar(&opts.Name, "name", "", "person name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "optional password")
}

func newPersonService(e *env) domain.PersonService {
	return services.NewPersonService(e.adaptor, auth.NewBcryptHasher(e.cfg.BcryptCost), e.logger, e.cfg.RequestTimeout)
}

func newPersonLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PersonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "login",
		Short:         "Sign in to an event, registering the person on first use",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			person, created, err := newPersonService(e).Login(cmd.Context(), opts.Event, opts.Name, opts.Password)
			if err != nil {
				return personError(err)
			}
			result := newPersonResult(person)
			result.Created = created
			return e.formatter.Success(result)
		},
	}
	addPersonFlags(cmd, opts)
	return cmd
}

func newPersonAvailabilityCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PersonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "availability",
		Short:         "Replace a person's availability",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			person, err := newPersonService(e).UpdateAvailability(cmd.Context(), opts.Event, opts.Name, opts.Password, domain.Slots(opts.Availability))
			if err != nil {
				return personError(err)
			}
			return e.formatter.Success(newPersonResult(person))
		},
	}
	addPersonFlags(cmd, opts)
	cmd.Flags().StringSliceVar(&opts.Availability, "slots", nil, "comma separated time slots")
	return cmd
}

func personError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return WrapExitError(ExitFailure, "event not found", err)
	case errors.Is(err, domain.ErrPersonNotFound):
		return WrapExitError(ExitFailure, "person not found", err)
	case errors.Is(err, domain.ErrInvalidPassword):
		return WrapExitError(ExitFailure, "invalid password", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return WrapExitError(ExitCommandError, "a name is required", err)
	}
	return WrapExitError(ExitFailure, "person update failed", err)
}
