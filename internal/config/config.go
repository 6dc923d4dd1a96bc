package config

import (
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, decoded from the environment.
type Config struct {
	HTTPAddr  string  `env:"HTTP_ADDR,default=:3000"`
	DBPath    string  `env:"DB_PATH,default=users.db"`
	RateLimit float64 `env:"RATE_LIMIT,default=20"`
	RateBurst int     `env:"RATE_BURST,default=40"`
}

// Load reads an optional .env file and decodes the environment into Config.
func Load() (*Config, error) {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
