package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// defaultOrigins are the booking site's production front ends.
var defaultOrigins = []string{
	"https://indatwa-cient.vercel.app",
	"https://indatwaevents.com",
	"https://www.indatwaevents.com",
}

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string `env:"PORT, default=5000"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	Database DatabaseConfig
	Auth     AuthConfig
	Logging  LoggingConfig
}

type DatabaseConfig struct {
	Driver      string `env:"STORAGE_DRIVER, default=postgres"`
	URL         string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE, default=true"`
	MaxConns    int32  `env:"DB_MAX_CONNS, default=10"`
}

type AuthConfig struct {
	BcryptCost         int           `env:"BCRYPT_COST, default=10"`
	JWTSecret          string        `env:"JWT_SECRET"`
	JWTIssuer          string        `env:"JWT_ISSUER, default=indatwa-events-api"`
	JWTTTL             time.Duration `env:"JWT_TTL, default=60m"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE, default=10"`
	LoginRateBurst     int           `env:"LOGIN_RATE_BURST, default=5"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL, default=info"`
	Format string `env:"LOG_FORMAT, default=json"`
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(context.Background(), envconfig.OsLookuper())
}

// LoadFrom reads configuration through lookuper and performs minimal validation.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Database.URL = strings.TrimSpace(cfg.Database.URL)
	cfg.Auth.JWTSecret = strings.TrimSpace(cfg.Auth.JWTSecret)

	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.URL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Auth.JWTTTL <= 0 {
		cfg.Auth.JWTTTL = 60 * time.Minute
	}
	if cfg.Auth.LoginRatePerMinute <= 0 {
		return Config{}, errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}
	if cfg.Auth.LoginRateBurst <= 0 {
		cfg.Auth.LoginRateBurst = 1
	}

	return cfg, nil
}

// ValidateForServing checks settings only the HTTP server needs; migrate and
// seed run without them.
func (c Config) ValidateForServing() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// Origins returns the CORS allow-list. "*" admits every origin.
func (c Config) Origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return append([]string(nil), defaultOrigins...)
	}
	return parseCSV(c.AllowedOrigins)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
