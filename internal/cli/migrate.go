package cli

import (
	"github.com/spf13/cobra"
)

type migrateResult struct {
	Driver string `json:"driver"`
}

func (r migrateResult) String() string {
	return "schema up to date (" + r.Driver + ")"
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "migrate",
		Short:         "Create the events, people and stats tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// openEnv applies the schema.
			e, err := openEnv(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return e.formatter.Success(migrateResult{Driver: e.db.DriverName()})
		},
	}
}
