package main

import (
	"log/slog"
	"time"

	"github.com/goldspin/goldspin/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// AdminCode is the operator shared secret checked by the /admin
	// routes. Override the default in any real deployment.
	AdminCode string `env:"APP_ADMIN_CODE" envDefault:"DJJDIDHDHXIEU"`

	// RevealDelay is the presentation pause hint returned with spin
	// results. Outcomes are fixed before it.
	RevealDelay time.Duration `env:"APP_REVEAL_DELAY" envDefault:"4s"`

	Postgres config.PostgresConfig
}
