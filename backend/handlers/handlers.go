package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	webmodels "github.com/hobbyreads/hobbyreads/backend/models"
	"github.com/hobbyreads/hobbyreads/backend/utils"
	"github.com/hobbyreads/hobbyreads/internal/domain/apperr"
	"github.com/hobbyreads/hobbyreads/internal/domain/connections"
	"github.com/hobbyreads/hobbyreads/internal/domain/profiles"
	"github.com/hobbyreads/hobbyreads/internal/domain/trades"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	DB          Pinger
	Connections connections.Service
	Trades      trades.Service
	Profiles    profiles.Service
	Version     string
	Commit      string
}

// currentUser returns the authenticated caller's id.
func currentUser(c *fiber.Ctx) (int64, error) {
	session, ok := utils.ExtractUserSession(c)
	if !ok || session.UserID <= 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return session.UserID, nil
}

func bindJSON(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "http.bindJSON", "invalid request body", err)
	}
	return nil
}

func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := webmodels.NewHealthCheck(webApp.Version, webApp.Commit)

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := webApp.DB.Ping(ctx); err != nil {
			slog.Warn("Health check: database unreachable",
				slog.String("type", "db"),
				slog.String("error", err.Error()))
			health.AddComponent("database", "unhealthy", "database unreachable")
		} else {
			health.AddComponent("database", "healthy", "")
		}

		if !health.Healthy() {
			return utils.SendJSON(c, fiber.StatusServiceUnavailable, webmodels.NewSuccessResponse(health, "Health check failed"))
		}
		return utils.SendSuccess(c, health, "Health check successful")
	}
}
