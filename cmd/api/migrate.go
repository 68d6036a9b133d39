package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/xavierca1/maria-crm/internal/config"
	"github.com/xavierca1/maria-crm/internal/infra/database"
)

func newMigrateCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := openDatabase(ctx, cfg())
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.Migrate(ctx, db)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			if len(applied) == 0 {
				log.Printf("✅ [DB] schema is up to date")
				return nil
			}
			for _, version := range applied {
				log.Printf("✅ [DB] applied %s", version)
			}
			return nil
		},
	}
}
