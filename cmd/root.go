package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hobbyreads/hobbyreads/hobbyreads"
	"github.com/hobbyreads/hobbyreads/hobbyreads/logger"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"

	configPath string
	cfg        *hobbyreads.Config
)

var rootCmd = &cobra.Command{
	Use:           "hobbyreads",
	Short:         "HobbyReads trading and connection API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := hobbyreads.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger.Setup("HobbyReads", cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource)
		logger.LogSystem("Configuration loaded",
			slog.String("command", cmd.Name()),
			slog.String("version", Version),
			slog.String("commit", Commit))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

// Execute runs the command named on the command line. Commands see a context
// cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.LogError("Command failed", err)
		return fmt.Errorf("hobbyreads: %w", err)
	}
	return nil
}
