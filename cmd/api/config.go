package main

import (
	"time"

	"github.com/fastprodman/mcmmocredits/internal/app"
	"github.com/fastprodman/mcmmocredits/internal/infra/logging"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT"             envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Logging         logging.Config
	App             app.Config
}
