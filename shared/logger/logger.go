package logger

import (
	"io"
	"os"
	"time"

	"campus/config"
	"campus/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger writes human readable output in development and JSON lines everywhere else.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(Output(cfg, os.Stdout)).With().Timestamp().Logger()
	log.Trace().Str("env", cfg.Server.Env).Msg("Zerolog initialized.")
}

func Output(cfg *config.Config, out io.Writer) io.Writer {
	if cfg.Server.Env == constant.ServerEnvDevelopment {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return out
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
