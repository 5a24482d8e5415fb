package cmd

import (
	"context"
	"fmt"
	"os"

	"shopfloor/internal/config"
	"shopfloor/internal/core/logger"
	"shopfloor/internal/database"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations manually.",
	Long:  `Applies every pending migration from --dir and exits.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		migrationDir, _ := cmd.Flags().GetString("dir")
		if migrationDir == "" {
			migrationDir = cfg.Database.MigrationsDir
		}

		log := logger.NewLogger(cfg.Server.Mode)
		defer func() { _ = log.Sync() }()

		if err := database.RunMigrations(cfg.Database.URL, migrationDir, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return Serve(cmd.Context(), cfg)
	},
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:          "shopfloor",
		Short:        "Shopfloor retail inventory service",
		SilenceUsage: true,
		RunE:         ServeCmd.RunE,
	}
	MigrateCmd.Flags().String("dir", "", "Directory containing the migration files (defaults to MIGRATIONS_DIR)")
	rootCmd.AddCommand(MigrateCmd, ServeCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
