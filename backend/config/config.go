package config

import (
	"time"

	"github.com/hobbyreads/hobbyreads/hobbyreads"
	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
)

// WebAppConfig contains web-specific configuration
type WebAppConfig struct {
	AllowedOrigins  string
	RateLimit       int
	RateLimitWindow time.Duration
	Debug           bool
	Environment     string
}

// NewWebAppConfig derives the HTTP settings from the application config.
func NewWebAppConfig(cfg *hobbyreads.Config, debug bool) *WebAppConfig {
	environment := "production"
	if debug {
		environment = "development"
	}

	return &WebAppConfig{
		AllowedOrigins:  cfg.Web.AllowedOrigins,
		RateLimit:       cfg.Web.RateLimit,
		RateLimitWindow: config.RateLimitWindow,
		Debug:           debug,
		Environment:     environment,
	}
}
