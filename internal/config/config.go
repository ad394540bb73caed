package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env           string `env:"APP_ENV" envDefault:"dev"`
	DBDriver      string `env:"DB_DRIVER" envDefault:"postgres"`
	DBDSN         string `env:"DB_DSN,required,notEmpty"`
	ServerPort    string `env:"SERVER_PORT" envDefault:"8080"`
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`

	SuperadminEmail    string `env:"SUPERADMIN_EMAIL" envDefault:"superadmin@lending.local"`
	SuperadminPassword string `env:"SUPERADMIN_PASSWORD" envDefault:"Superadmin123!"`

	// сколько последних заявок показывать на дашборде
	RecentBorrowsLimit int `env:"DASHBOARD_RECENT_LIMIT" envDefault:"10"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if len(cfg.SessionSecret) < 16 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if cfg.RecentBorrowsLimit <= 0 {
		cfg.RecentBorrowsLimit = 10
	}

	return cfg, nil
}
