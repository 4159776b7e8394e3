package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/graffic/campusbot/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagEnv string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "campusbot",
	Short:         "Telegram bot for the campus group chats",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagEnv)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		}))
		slog.SetDefault(logger)
		return nil
	},
	// serve is the default command
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), false)
	},
}

func init() {
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", env, "configuration environment, selects config/<env>.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
