package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hobbyreads/hobbyreads/backend/models"
	"github.com/hobbyreads/hobbyreads/backend/utils"
)

// TokenVerifier turns a bearer token into the authenticated caller.
type TokenVerifier interface {
	Verify(token string) (*models.UserSession, error)
}

// AuthRequired rejects requests without a valid bearer token and stores the
// caller under the "user" local.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			slog.Debug("Auth required: no token", slog.String("type", "http"), slog.String("path", c.Path()))
			return utils.SendForbidden(c, "No token provided")
		}

		session, err := verifier.Verify(token)
		if err != nil {
			slog.Debug("Auth required: invalid token",
				slog.String("type", "http"),
				slog.String("ip", utils.GetIPAddress(c)),
				slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Unauthorized")
		}

		c.Locals("user", session)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	token := c.Get(fiber.HeaderAuthorization)
	if token == "" {
		token = c.Get("X-Access-Token")
	}
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
