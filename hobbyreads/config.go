package hobbyreads

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	DB     database.DBConfig `toml:"db"`
	Web    WebConfig         `toml:"web"`
	Auth   AuthConfig        `toml:"auth"`
	Spaces SpacesConfig      `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	AllowedOrigins string `toml:"allowed_origins"`
	RateLimit      int    `toml:"rate_limit"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// SpacesConfig points at the S3-compatible bucket holding cover images and profile pictures.
// An empty Bucket disables URL signing.
type SpacesConfig struct {
	Key         string `toml:"key"`
	Secret      string `toml:"secret"`
	Region      string `toml:"region"`
	Bucket      string `toml:"bucket"`
	Endpoint    string `toml:"endpoint"`
	CoverRoot   string `toml:"cover_root"`
	ProfileRoot string `toml:"profile_root"`
	URLTTL      int    `toml:"url_ttl"`
}

// SignedURLTTL is the lifetime of presigned media URLs.
func (s SpacesConfig) SignedURLTTL() time.Duration {
	if s.URLTTL <= 0 {
		return config.DefaultURLTTL
	}
	return time.Duration(s.URLTTL) * time.Second
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("HOBBYREADS_DB_PASSWORD"); ok {
		c.DB.Password = v
	}
	if v, ok := os.LookupEnv("PG_SSLMODE"); ok {
		c.DB.SSLMode = v
	}
	if v, ok := os.LookupEnv("HOBBYREADS_JWT_SECRET"); ok {
		c.Auth.JWTSecret = v
	}
}

func (c *Config) applyDefaults() {
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.PoolSize == 0 {
		c.DB.PoolSize = 10
	}
	if c.Web.Host == "" {
		c.Web.Host = "0.0.0.0"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}
	if c.Web.AllowedOrigins == "" {
		c.Web.AllowedOrigins = "*"
	}
	if c.Web.RateLimit == 0 {
		c.Web.RateLimit = config.DefaultRateLimit
	}
	if c.Spaces.CoverRoot == "" {
		c.Spaces.CoverRoot = config.DefaultCoverRoot
	}
	if c.Spaces.ProfileRoot == "" {
		c.Spaces.ProfileRoot = config.DefaultProfileRoot
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	switch {
	case c.DB.Host == "":
		return errors.New("config: db.host is required")
	case c.DB.Database == "":
		return errors.New("config: db.database is required")
	case c.Auth.JWTSecret == "":
		return errors.New("config: auth.jwt_secret is required")
	}
	return nil
}
