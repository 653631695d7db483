package redis

import (
	"context"
	"net"
	"time"

	"campus/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// Options maps the primary node settings onto client options.
func Options(cfg *config.Config) *goRedis.Options {
	primary := cfg.Cache.Redis.Primary

	return &goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	}
}

// New connects to the primary node. The process cannot serve rate limiting or the room
// cache without it, so an unreachable server is fatal.
func New(cfg *config.Config) *goRedis.Client {
	opts := Options(cfg)
	client := goRedis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	logger := log.With().Str("addr", opts.Addr).Int("db", opts.DB).Logger()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	logger.Info().Msg("Connected to Redis")

	return client
}
