package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgdb "github.com/Skotchmaster/inventory/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer func() { _ = pkgdb.Close(db) }()

			if err := pkgdb.Migrate(db); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}
