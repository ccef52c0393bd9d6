package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/session"
)

type Config struct {
	HTTPAddr   string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath     string        `env:"DB_PATH" envDefault:"data/geoguessr.db"`
	LogLevel   slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir     string        `env:"SPA_DIR" envDefault:"../web/dist"`
	RedisURL   string        `env:"REDIS_URL"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SeedDemo   bool          `env:"SEED_DEMO" envDefault:"true"`

	Fallback Fallback `envPrefix:"FALLBACK_"`
}

// Fallback configures the target used when a location lacks coordinates
// or a floor. With STRICT set such locations fail to load instead.
type Fallback struct {
	X      float64 `env:"X" envDefault:"50"`
	Y      float64 `env:"Y" envDefault:"50"`
	Floor  int     `env:"FLOOR" envDefault:"1"`
	Strict bool    `env:"STRICT" envDefault:"false"`
}

func (f Fallback) Policy() session.FallbackPolicy {
	return session.FallbackPolicy{
		Location: geoguessr.Point{X: f.X, Y: f.Y},
		Floor:    f.Floor,
		Strict:   f.Strict,
	}
}

// Load reads the environment, after applying any .env files given (or
// ./.env when none are). Missing .env files are not an error.
func Load(dotenv ...string) (*Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
