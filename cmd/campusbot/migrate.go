package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/graffic/campusbot/internal/storage"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		db, err := storage.New(&cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		return migrate(ctx, db)
	},
}

func migrate(ctx context.Context, db *storage.DB) error {
	logger.Info("running migrations")
	if err := db.Migrate(ctx, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
