package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL  string `env:"DATABASE_URL,required"`
	DiscordToken string `env:"DISCORD_BOT_TOKEN,required"`

	// Optional: registering commands per guild makes them visible instantly
	// while iterating; empty means global registration.
	DiscordGuild string `env:"DISCORD_GUILD_ID"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
