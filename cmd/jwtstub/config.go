package main

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server ServerConfig
	Stubs  StubsConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port                   int `env:"PORT, default=8080"`
	ShutdownTimeoutSeconds int `env:"SERVER_SHUTDOWN_TIMEOUT_SECS, default=25"`
}

type StubsConfig struct {
	File string `env:"STUBS_FILE, required"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL, default=info"`
	Format string `env:"LOG_FORMAT, default=json"`
}

func LoadConfig(ctx context.Context) (cfg Config, err error) {
	err = envconfig.Process(ctx, &cfg)
	return
}
