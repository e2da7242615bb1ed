package cli

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"crabfit/config"
	"crabfit/internal/database"
	"crabfit/internal/repository/sqladaptor"
)

// env is what a command needs to talk to the store.
type env struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sqlx.DB
	adaptor   *sqladaptor.Adaptor
	formatter *OutputFormatter
}

// openEnv loads configuration, connects to the database and makes sure the
// schema is in place. Logs go to stderr so JSON output stays clean.
func openEnv(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.DBUrl = opts.Database
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	logger := config.NewLogger(cmd.ErrOrStderr(), cfg)

	db, err := database.Open(ctx, cfg.DBUrl, cfg.MaxOpenConns, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "failed to apply schema", err)
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		adaptor: sqladaptor.New(db, sqladaptor.WithLogger(logger)),
		formatter: &OutputFormatter{
			Format: opts.Format,
			Writer: cmd.OutOrStdout(),
		},
	}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}
