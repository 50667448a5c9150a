package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	DefaultTxTimeout    = 15 * time.Second
	NetworkDialTimeout  = 5 * time.Second
	ShutdownTimeout     = 15 * time.Second
	StartupTimeout      = 30 * time.Second
	SlowQueryThreshold  = 500 * time.Millisecond

	// Cache settings
	HobbyCacheSize = 1024
)

// Social and Trade Constants
const (
	// Suggestions
	SuggestedConnectionsLimit = 20
	SuggestedUsersLimit       = 10

	// Text limits
	MaxTradeMessageLength = 1000
	MaxHobbyNameLength    = 255
	MaxNameLength         = 255
	MaxBioLength          = 2000
)

// API and Rate Limiting Constants
const (
	// Rate limiting
	DefaultRateLimit = 100
	RateLimitWindow  = 1 * time.Minute

	// Request limits
	MaxRequestSize = 1024 * 1024 // 1MB
	RequestTimeout = 30 * time.Second
)

// Media Constants
const (
	DefaultCoverRoot   = "uploads/books"
	DefaultProfileRoot = "uploads/profiles"
	DefaultURLTTL      = 15 * time.Minute
)
