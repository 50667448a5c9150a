package cmd

import (
	"context"
	"log/slog"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database"
	"github.com/hobbyreads/hobbyreads/hobbyreads/logger"
	"github.com/spf13/cobra"
)

var resetTables bool

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "create the database schema and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.StartupTimeout)
		defer cancel()

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			logger.LogError("Failed to connect to database", err)
			return err
		}
		defer db.Close()

		if err = db.InitializeSchema(ctx); err != nil {
			logger.LogError("Schema initialization failed", err)
			return err
		}

		if resetTables {
			slog.Warn("Resetting application tables", slog.String("type", "db"), slog.String("database", cfg.DB.Database))
			if err = db.ResetAppTables(ctx); err != nil {
				logger.LogError("Table reset failed", err)
				return err
			}
		}

		logger.LogSystem("Migration completed", slog.Bool("reset", resetTables))
		return nil
	},
}

func init() {
	migrateCMD.Flags().BoolVar(&resetTables, "reset", false, "truncate all application tables after migrating")
	rootCmd.AddCommand(migrateCMD)
}
