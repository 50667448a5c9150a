// Package backend is the HTTP adapter in front of the domain services.
package backend

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	webconfig "github.com/hobbyreads/hobbyreads/backend/config"
	"github.com/hobbyreads/hobbyreads/backend/handlers"
	"github.com/hobbyreads/hobbyreads/backend/middleware"
	"github.com/hobbyreads/hobbyreads/backend/utils"
	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
)

// NewApp builds the fiber application serving the API routes.
func NewApp(webApp *handlers.WebApp, verifier middleware.TokenVerifier, opts *webconfig.WebAppConfig) *fiber.App {
	window := opts.RateLimitWindow
	if window <= 0 {
		window = config.RateLimitWindow
	}

	app := fiber.New(fiber.Config{
		AppName:           "HobbyReads API",
		ServerHeader:      "HobbyReads",
		BodyLimit:         config.MaxRequestSize,
		ReadTimeout:       config.RequestTimeout,
		WriteTimeout:      config.RequestTimeout,
		ErrorHandler:      middleware.CustomErrorHandler,
		EnablePrintRoutes: opts.Debug,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Access-Token",
	}))
	app.Use(middleware.LoggingMiddleware())
	if opts.RateLimit > 0 {
		app.Use(middleware.RateLimit(opts.RateLimit, window))
	}

	setupRoutes(app, webApp, verifier)
	return app
}

func setupRoutes(app *fiber.App, webApp *handlers.WebApp, verifier middleware.TokenVerifier) {
	app.Get("/health", handlers.HealthCheck(webApp))

	api := app.Group("/api")
	api.Get("/health", handlers.HealthCheck(webApp))

	auth := middleware.AuthRequired(verifier)

	conns := api.Group("/connections", auth)
	conns.Get("/", handlers.ConnectionsList(webApp))
	conns.Get("/pending", handlers.ConnectionsPending(webApp))
	conns.Get("/suggested", handlers.ConnectionsSuggested(webApp))
	conns.Post("/:userId", handlers.ConnectionsRequest(webApp))
	conns.Put("/:id/accept", handlers.ConnectionsAccept(webApp))
	conns.Put("/:id/reject", handlers.ConnectionsReject(webApp))
	conns.Delete("/:id", handlers.ConnectionsDelete(webApp))

	trades := api.Group("/trades", auth)
	trades.Post("/", handlers.TradesCreate(webApp))
	trades.Get("/pending", handlers.TradesPending(webApp))
	trades.Get("/user/:id", handlers.TradesForUser(webApp))
	trades.Put("/:id", handlers.TradesUpdateStatus(webApp))

	users := api.Group("/users", auth)
	users.Get("/me", handlers.UsersMe(webApp))
	users.Put("/profile", handlers.UsersUpdateProfile(webApp))
	users.Get("/suggested", handlers.UsersSuggested(webApp))

	api.Get("/hobbies", auth, handlers.HobbiesList(webApp))

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return utils.SendNotFound(c, "The requested endpoint does not exist")
	})
}
