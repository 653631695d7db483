package main

import (
	"os"

	"campus/config"
	"campus/helper"
	"campus/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action is required: up, step-up, down, drop or version")
	}

	if err := helper.Runner(cfg, helper.Action(os.Args[1])); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
