package cmd

import (
	"github.com/Ramsey-B/mint/config"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, flush, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer flush()

			db, err := database.Connect(cmd.Context(), cfg.Database(), logger)
			if err != nil {
				return err
			}
			defer db.Close()

			return database.NewMigrationService(logger, cfg.Migration()).MigratePostgres(db.DB.DB, cfg.DatabaseName)
		},
	}
}
