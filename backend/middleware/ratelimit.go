package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/hobbyreads/hobbyreads/backend/utils"
)

// RateLimit limits requests per client IP with a sliding window.
func RateLimit(limit int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      utils.GetIPAddress,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasSuffix(c.Path(), "/health")
		},
		LimitReached: func(c *fiber.Ctx) error {
			slog.Warn("Rate limit exceeded",
				slog.String("type", "http"),
				slog.String("ip", utils.GetIPAddress(c)),
				slog.String("path", c.Path()),
				slog.String("method", c.Method()),
				slog.Int("limit", limit),
				slog.Duration("window", window))

			return utils.SendError(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Too many requests. Please try again later.", nil)
		},
	})
}
