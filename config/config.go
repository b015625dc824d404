package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env              string `env:"ENV" envDefault:"development"`
	Port             string `env:"PORT" envDefault:"8080"`
	DBURL            string `env:"DB_URL,required,notEmpty"`
	RedisURL         string `env:"REDIS_URL"`
	TokenSecret      string `env:"TOKEN_SECRET,required,notEmpty"`
	AccessExpiryMin  int    `env:"ACCESS_TOKEN_EXPIRY" envDefault:"30"`
	RefreshExpiryMin int    `env:"REFRESH_TOKEN_EXPIRY" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
