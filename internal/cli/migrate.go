package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msomdec/daybook/internal/config"
	"github.com/msomdec/daybook/internal/repository/sqlite"
)

// NewMigrateCommand creates the migrate command, which applies pending
// schema migrations and exits.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := sqlite.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			slog.Info("database migrations applied", "path", cfg.DatabasePath)
			return nil
		},
	}
}
