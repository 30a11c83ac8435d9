package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environment names accepted in APP_ENVIRONMENT.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all runtime configuration for the storefront service.
type Config struct {
	// APIBaseURL is the base URL of the remote commerce backend.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3000"`

	// AppEnvironment selects development or production behavior.
	// Development mode enables demo login and the fallback catalog.
	AppEnvironment string `env:"APP_ENVIRONMENT" envDefault:"development"`

	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// SessionDBPath is the SQLite file backing durable session storage.
	SessionDBPath string `env:"SESSION_DB_PATH" envDefault:"storefront.db"`

	// RequestTimeout bounds each outbound backend call. No retries.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"3s"`
}

// Load parses configuration from environment variables with fallback defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AppEnvironment != EnvDevelopment && cfg.AppEnvironment != EnvProduction {
		return Config{}, fmt.Errorf("invalid APP_ENVIRONMENT %q", cfg.AppEnvironment)
	}
	return cfg, nil
}

// IsDevelopment reports whether demo-mode behavior is enabled.
func (c Config) IsDevelopment() bool {
	return c.AppEnvironment == EnvDevelopment
}
