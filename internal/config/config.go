package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath      string     `env:"DB_PATH" envDefault:"data/hunt.db"`
	CatalogPath string     `env:"CATALOG_PATH"`
	SPADir      string     `env:"SPA_DIR"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	GameDuration  time.Duration `env:"GAME_DURATION" envDefault:"90m"`
	PointsPerStep int           `env:"POINTS_PER_STEP" envDefault:"10"`
	FirstBonus    int           `env:"FIRST_BONUS_POINTS" envDefault:"5"`

	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"ignite-admin"`
}

func Load() (*Config, error) {
	// A .env file is optional; real env vars win.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.GameDuration <= 0 {
		return nil, fmt.Errorf("GAME_DURATION must be positive, got %s", cfg.GameDuration)
	}
	return &cfg, nil
}
