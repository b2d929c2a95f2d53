package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/inventory/internal/config"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the administrator account from ADMIN_* settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.MustNonEmpty("ADMIN_PASSWORD", cfg.AdminPassword); err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			if err := migrateOrClose(db); err != nil {
				return err
			}

			a := newApp(cfg, logger, db)
			defer a.close()

			created, err := a.auth.SeedAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
			if err != nil {
				return err
			}
			logger.WithField("email", cfg.AdminEmail).WithField("created", created).Info("admin seed finished")
			return nil
		},
	}
}
