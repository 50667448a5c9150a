package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hobbyreads/hobbyreads/backend"
	webconfig "github.com/hobbyreads/hobbyreads/backend/config"
	"github.com/hobbyreads/hobbyreads/backend/handlers"
	webservices "github.com/hobbyreads/hobbyreads/backend/services"
	"github.com/hobbyreads/hobbyreads/hobbyreads"
	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
	"github.com/hobbyreads/hobbyreads/hobbyreads/logger"
	"github.com/hobbyreads/hobbyreads/hobbyreads/services"
	"github.com/hobbyreads/hobbyreads/internal/domain/connections"
	"github.com/hobbyreads/hobbyreads/internal/domain/profiles"
	"github.com/hobbyreads/hobbyreads/internal/domain/trades"
	"github.com/spf13/cobra"
)

var debugMode bool

// mediaURLs resolves stored cover and profile keys to URLs.
type mediaURLs interface {
	CoverURL(ctx context.Context, key string) (string, error)
	ProfileURL(ctx context.Context, key string) (string, error)
}

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		startCtx, cancel := context.WithTimeout(ctx, config.StartupTimeout)
		defer cancel()

		db, err := database.New(startCtx, cfg.DB)
		if err != nil {
			logger.LogError("Failed to connect to database", err)
			return err
		}
		defer db.Close()

		if err = db.Ping(startCtx); err != nil {
			logger.LogError("Database ping failed", err)
			return err
		}
		logger.LogSystem("Database connected", slog.String("database", cfg.DB.Database))

		media, err := newMediaURLs(startCtx, cfg)
		if err != nil {
			logger.LogError("Failed to initialize media URL signer", err)
			return err
		}

		bunDB := db.BunDB()
		hobbyRepo := repositories.NewHobbyRepository(bunDB)
		userRepo := repositories.NewUserRepository(bunDB, hobbyRepo)
		bookRepo := repositories.NewBookRepository(bunDB)
		connRepo := repositories.NewConnectionRepository(bunDB)
		tradeRepo := repositories.NewTradeRepository(bunDB)

		if _, err = hobbyRepo.GetAll(startCtx); err != nil {
			slog.Warn("Failed to warm hobby cache", slog.String("type", "db"), slog.Any("error", err))
		}

		webApp := &handlers.WebApp{
			DB:          db,
			Connections: connections.NewService(connRepo, userRepo, hobbyRepo),
			Trades:      trades.NewService(tradeRepo, bookRepo, media),
			Profiles:    profiles.NewService(userRepo, hobbyRepo, media, services.NewHobbySearch()),
			Version:     Version,
			Commit:      Commit,
		}

		tokens := webservices.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		app := backend.NewApp(webApp, tokens, webconfig.NewWebAppConfig(cfg, debugMode))

		address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
		logger.LogSystem("Starting HTTP server", slog.String("address", address))

		errCh := make(chan error, 1)
		go func() {
			errCh <- app.Listen(address)
		}()

		select {
		case err = <-errCh:
			if err != nil {
				logger.LogError("HTTP server stopped", err)
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.LogSystem("Shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer shutdownCancel()

		if err = app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.LogError("Server shutdown error", err)
			return err
		}

		logger.LogSystem("HTTP server shutdown complete")
		return nil
	},
}

// newMediaURLs presigns through Spaces when a bucket is configured and falls back
// to local upload paths otherwise.
func newMediaURLs(ctx context.Context, cfg *hobbyreads.Config) (mediaURLs, error) {
	if cfg.Spaces.Bucket == "" {
		return services.NewLocalMedia(cfg.Spaces.CoverRoot, cfg.Spaces.ProfileRoot), nil
	}
	spaces, err := services.NewSpacesService(ctx, services.SpacesOptions{
		Key:         cfg.Spaces.Key,
		Secret:      cfg.Spaces.Secret,
		Region:      cfg.Spaces.Region,
		Bucket:      cfg.Spaces.Bucket,
		Endpoint:    cfg.Spaces.Endpoint,
		CoverRoot:   cfg.Spaces.CoverRoot,
		ProfileRoot: cfg.Spaces.ProfileRoot,
		TTL:         cfg.Spaces.SignedURLTTL(),
	})
	if err != nil {
		return nil, err
	}
	return spaces, nil
}

func init() {
	serveCMD.Flags().BoolVar(&debugMode, "debug", false, "print registered routes at startup")
	rootCmd.AddCommand(serveCMD)
}
