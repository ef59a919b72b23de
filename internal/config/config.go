// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/parishdesk/parishdesk/internal/env"
)

// Config holds the application configuration.
// All variables carry the PARISHDESK_ prefix.
type Config struct {
	// Server Configuration
	HTTPPort string `env:"PARISHDESK_HTTP_PORT" default:"8081"`
	Env      string `env:"PARISHDESK_ENV" default:"dev"` // dev, prod

	// Database Configuration
	PostgresURL       string        `env:"PARISHDESK_POSTGRES_URL"`
	DBMaxOpenConns    int           `env:"PARISHDESK_DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `env:"PARISHDESK_DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `env:"PARISHDESK_DB_CONN_MAX_LIFETIME" default:"5m"`
	DBConnMaxIdleTime time.Duration `env:"PARISHDESK_DB_CONN_MAX_IDLE_TIME" default:"1m"`

	// Pagination
	DefaultPageSize int `env:"PARISHDESK_DEFAULT_PAGE_SIZE" default:"25"`
	MaxPageSize     int `env:"PARISHDESK_MAX_PAGE_SIZE" default:"100"`

	// Worker Configuration
	// CloseSchedule is a cron expression for the session auto-close sweep.
	CloseSchedule string `env:"PARISHDESK_CLOSE_SCHEDULE" default:"*/15 * * * *"`

	// Observability Configuration
	OTelEnabled bool `env:"PARISHDESK_OTEL_ENABLED" default:"false"`
}

// Load parses environment variables into a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.PostgresURL == "" {
		return fmt.Errorf("PARISHDESK_POSTGRES_URL is required")
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("PARISHDESK_DEFAULT_PAGE_SIZE must not exceed PARISHDESK_MAX_PAGE_SIZE")
	}
	return nil
}
