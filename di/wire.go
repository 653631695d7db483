//go:build wireinject
// +build wireinject

package di

import (
	"campus/config"
	"campus/infras/events"
	"campus/infras/jwt"
	"campus/infras/otel"
	"campus/infras/postgres"
	"campus/infras/redis"
	"campus/infras/s3"
	bookingHandler "campus/internal/handlers/booking"
	penaltyHandler "campus/internal/handlers/penalty"
	roomHandler "campus/internal/handlers/room"
	"campus/permissions"
	"campus/shared/cache"
	"campus/shared/timezone"
	"campus/transport/http"
	"campus/transport/http/middleware"
	"campus/transport/http/router"

	bookingRepository "campus/internal/domains/booking/repository"
	bookingService "campus/internal/domains/booking/service"
	"campus/internal/domains/booking/slot"
	"campus/internal/domains/booking/sweeper"
	penaltyRepository "campus/internal/domains/penalty/repository"
	penaltyService "campus/internal/domains/penalty/service"
	roomRepository "campus/internal/domains/room/repository"
	roomService "campus/internal/domains/room/service"
	userRepository "campus/internal/domains/user/repository"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	events.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	timezone.NewSystemClock,
)

var userDomain = wire.NewSet(
	userRepository.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
	roomService.NewAdmin,
)

var bookingDomain = wire.NewSet(
	slot.NewResolver,
	bookingRepository.New,
	bookingService.New,
	sweeper.New,
)

var penaltyDomain = wire.NewSet(
	penaltyRepository.New,
	penaltyService.New,
)

var domains = wire.NewSet(
	userDomain,
	roomDomain,
	bookingDomain,
	penaltyDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	bookingHandler.New,
	penaltyHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
