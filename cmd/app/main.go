package main

import (
	"campus/config"
	"campus/di"
	"campus/helper"
	"campus/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Campus Reservation API
// @version 1.0
// @description Reserve today's evening slots of campus rooms.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()

	if err := http.Sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule retention sweeper")
	}

	http.Serve()
}
