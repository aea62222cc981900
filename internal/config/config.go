package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       App
	Postgres  Postgres
	Redis     Redis
	HTTP      HTTP
	Scheduler Scheduler
	Finance   Finance
	Sources   Sources
}

type App struct {
	Name     string `env:"APP_NAME" envDefault:"mortgage-deals"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Scheduler.validate(); err != nil {
		return Config{}, fmt.Errorf("config.Scheduler: %w", err)
	}

	if _, err := config.Sources.BrowserSpecs(); err != nil {
		return Config{}, fmt.Errorf("config.Sources: %w", err)
	}

	if _, err := config.Sources.FeedSpecs(); err != nil {
		return Config{}, fmt.Errorf("config.Sources: %w", err)
	}

	return config, nil
}
