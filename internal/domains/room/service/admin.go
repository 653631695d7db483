package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"campus/config"
	"campus/infras/otel"
	"campus/infras/postgres"
	bookingRepo "campus/internal/domains/booking/repository"
	"campus/internal/domains/room/model"
	"campus/internal/domains/room/model/dto"
	"campus/internal/domains/room/repository"
	"campus/shared/cache"
	"campus/shared/constant"
	"campus/shared/event"
	"campus/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Admin holds the room operations reserved for administrators.
type Admin interface {
	ToggleActive(ctx context.Context, id int64) (dto.ToggleActiveResponse, error)
}

type adminImpl struct {
	repo        repository.Room
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	cfg         *config.Config
	cache       cache.RedisCache
	publisher   event.Publisher
	otel        otel.Otel
	clock       timezone.Clock
}

func NewAdmin(
	repo repository.Room,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	publisher event.Publisher,
	otel otel.Otel,
	clock timezone.Clock,
) Admin {
	return &adminImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		cfg:         cfg,
		cache:       cache,
		publisher:   publisher,
		otel:        otel,
		clock:       clock,
	}
}

// ToggleActive flips the room between active and inactive. Deactivation is refused while any
// reservation of the room has not ended yet; activation is always allowed.
func (s *adminImpl) ToggleActive(ctx context.Context, id int64) (res dto.ToggleActiveResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.ToggleActive")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := s.clock.Now()

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		room, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock room")

			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == 0 {
			return model.ErrRoomNotFound // nolint:wrapcheck
		}

		if room.Active {
			hasFuture, err := s.bookingRepo.ExistsFutureForRoomTx(ctx, tx, id, now)
			if err != nil {
				log.Error().Err(err).Msg("failed to check upcoming bookings")

				return fmt.Errorf("failed to check upcoming bookings: %w", err)
			}

			if hasFuture {
				return model.ErrRoomHasFutureBookings // nolint:wrapcheck
			}
		}

		if err := s.repo.SetActiveTx(ctx, tx, id, !room.Active, user, now); err != nil {
			log.Error().Err(err).Msg("failed to update room status")

			return fmt.Errorf("failed to update room status: %w", err)
		}

		res = dto.NewToggleActiveResponse(id, !room.Active)

		return nil
	})
	if err != nil {
		return dto.ToggleActiveResponse{}, err
	}

	log.Info().Int64("room_id", id).Bool("active", res.Active).Str("by", user).Msg("room status changed")

	go invalidate(context.WithoutCancel(ctx), s.cache, id)

	event.PublishAsync(ctx, s.publisher, time.Duration(s.cfg.Events.TimeoutSecs)*time.Second,
		event.NewMessage(event.TopicRoomStatusChanged, strconv.FormatInt(id, 10), res))

	return res, nil
}
