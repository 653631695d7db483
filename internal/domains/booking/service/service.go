package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"campus/config"
	"campus/infras/otel"
	"campus/infras/postgres"
	"campus/internal/domains/booking/model"
	"campus/internal/domains/booking/model/dto"
	"campus/internal/domains/booking/repository"
	"campus/internal/domains/booking/slot"
	roomModel "campus/internal/domains/room/model"
	roomRepo "campus/internal/domains/room/repository"
	userModel "campus/internal/domains/user/model"
	userRepo "campus/internal/domains/user/repository"
	"campus/shared"
	"campus/shared/cache"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	"campus/shared/event"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	CachePrefix         = "booking"
	cacheGetAllBooking  = CachePrefix + ":gets"
	cacheCountBooking   = CachePrefix + ":count"
	logFieldBookingID   = "booking_id"
	logFieldRoomID      = "room_id"
	logFieldUserID      = "user_id"
	logFieldSlotIndex   = "slot"
	logFieldCancelledBy = "cancelled_by"
)

type Booking interface {
	CreateBooking(ctx context.Context, userID string, roomID int64, slotIndex int) (dto.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID int64, actingUserID string, actingUserIsAdmin bool) error
	ListTodaySlots(ctx context.Context, roomID int64) (dto.TodaySlotsResponse, error)
	CheckAvailability(ctx context.Context, userID string, roomID int64, slotIndex int) (dto.AvailabilityResponse, error)
	Get(ctx context.Context, id int64, actingUserID string, actingUserIsAdmin bool) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepo.Room
	userRepo   userRepo.User
	transactor postgres.Transactor
	resolver   *slot.Resolver
	cfg        *config.Config
	cache      cache.RedisCache
	publisher  event.Publisher
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	userRepo userRepo.User,
	transactor postgres.Transactor,
	resolver *slot.Resolver,
	cfg *config.Config,
	cache cache.RedisCache,
	publisher event.Publisher,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		userRepo:   userRepo,
		transactor: transactor,
		resolver:   resolver,
		cfg:        cfg,
		cache:      cache,
		publisher:  publisher,
		otel:       otel,
	}
}

// CreateBooking reserves today's slotIndex of roomID for userID.
//
// The duplicate checks and the insert run in one transaction that holds the room row lock, so
// two requests for the same room are serialized. The unique indexes on (room_id, start_at) and
// (user_id, start_at) back this up for the cross-room case.
func (s *serviceImpl) CreateBooking(ctx context.Context, userID string, roomID int64, slotIndex int) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	window, err := s.resolver.Resolve(slotIndex)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, userModel.ErrUserNotFound // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, roomModel.ErrRoomNotFound // nolint:wrapcheck
	}

	if !room.Active {
		return res, roomModel.ErrRoomInactive // nolint:wrapcheck
	}

	req := dto.CreateBookingRequest{RoomID: roomID, Slot: slotIndex}
	booking := req.ToModel(user.ID, window, s.resolver.Now())
	booking.Username = user.Username
	booking.DisplayName = user.DisplayName

	err = s.transactor.WithinTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.roomRepo.GetForUpdateTx(ctx, tx, roomID)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock room")

			return fmt.Errorf("failed to lock room: %w", err)
		}

		if locked.ID == 0 {
			return roomModel.ErrRoomNotFound // nolint:wrapcheck
		}

		if !locked.Active {
			return roomModel.ErrRoomInactive // nolint:wrapcheck
		}

		held, err := s.repo.ExistsForUserAtStartTx(ctx, tx, userID, window.Start)
		if err != nil {
			log.Error().Err(err).Msg("failed to check user bookings")

			return fmt.Errorf("failed to check user bookings: %w", err)
		}

		if held {
			return model.ErrDoubleBooking // nolint:wrapcheck
		}

		conflicts, err := s.repo.FindConflictingTx(ctx, tx, roomID, window.Start, window.End)
		if err != nil {
			log.Error().Err(err).Msg("failed to check conflicting bookings")

			return fmt.Errorf("failed to check conflicting bookings: %w", err)
		}

		if len(conflicts) > 0 {
			return model.ErrSlotTaken // nolint:wrapcheck
		}

		booking.ID, err = s.repo.InsertTx(ctx, tx, booking)
		if err != nil {
			if conflict := conflictFromInsert(err); conflict != nil {
				return conflict
			}

			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(booking, window.Index)

	log.Info().
		Int64(logFieldBookingID, booking.ID).
		Int64(logFieldRoomID, roomID).
		Str(logFieldUserID, userID).
		Int(logFieldSlotIndex, window.Index).
		Msg("booking created")

	s.afterWrite(ctx, event.NewMessage(event.TopicBookingCreated, strconv.FormatInt(roomID, 10), res))

	return res, nil
}

// CancelBooking hard deletes the booking. Only its owner or an administrator may do so.
func (s *serviceImpl) CancelBooking(ctx context.Context, bookingID int64, actingUserID string, actingUserIsAdmin bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CancelBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return model.ErrBookingNotFound // nolint:wrapcheck
	}

	if booking.UserID != actingUserID && !actingUserIsAdmin {
		return model.ErrForbidden // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, bookingID); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	log.Info().
		Int64(logFieldBookingID, bookingID).
		Str(logFieldCancelledBy, actingUserID).
		Msg("booking cancelled")

	payload := dto.CancelledEvent{
		BookingID:   booking.ID,
		RoomID:      booking.RoomID,
		UserID:      booking.UserID,
		CancelledBy: actingUserID,
		StartAt:     booking.StartAt.Format(constant.DateFormat),
	}

	s.afterWrite(ctx, event.NewMessage(event.TopicBookingCancelled, strconv.FormatInt(booking.RoomID, 10), payload))

	return nil
}

// ListTodaySlots is read straight from the store; the grid has to reflect the latest bookings.
func (s *serviceImpl) ListTodaySlots(ctx context.Context, roomID int64) (res dto.TodaySlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListTodaySlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.roomRepo.Get(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, roomModel.ErrRoomNotFound // nolint:wrapcheck
	}

	from, to := s.resolver.Today()

	bookings, err := s.repo.FindByRoomAndDateRange(ctx, roomID, from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to get today's bookings")

		return res, fmt.Errorf("failed to get today's bookings: %w", err)
	}

	res = dto.NewTodaySlotsResponse(room, from, s.resolver.Count())
	for _, booking := range bookings {
		res.Place(booking, s.resolver.IndexOf(booking.StartAt))
	}

	return res, nil
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, userID string, roomID int64, slotIndex int) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	window, err := s.resolver.Resolve(slotIndex)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, roomModel.ErrRoomNotFound // nolint:wrapcheck
	}

	conflicts, err := s.repo.FindConflicting(ctx, roomID, window.Start, window.End)
	if err != nil {
		log.Error().Err(err).Msg("failed to check conflicting bookings")

		return res, fmt.Errorf("failed to check conflicting bookings: %w", err)
	}

	holding, err := s.repo.ExistsForUserAtStart(ctx, userID, window.Start)
	if err != nil {
		log.Error().Err(err).Msg("failed to check user bookings")

		return res, fmt.Errorf("failed to check user bookings: %w", err)
	}

	res = dto.AvailabilityResponse{
		RoomID:     roomID,
		Slot:       window.Index,
		StartAt:    window.Start.Format(constant.DateFormat),
		EndAt:      window.End.Format(constant.DateFormat),
		RoomActive: room.Active,
		Available:  room.Active && len(conflicts) == 0 && !holding,
		HoldingAny: holding,
	}

	for _, conflict := range conflicts {
		if conflict.UserID == userID {
			res.HeldByYou = true
		}
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64, actingUserID string, actingUserIsAdmin bool) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, model.ErrBookingNotFound // nolint:wrapcheck
	}

	if booking.UserID != actingUserID && !actingUserIsAdmin {
		return res, model.ErrForbidden // nolint:wrapcheck
	}

	res.FromModel(booking, s.resolver.IndexOf(booking.StartAt))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit, s.resolver.IndexOf)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) afterWrite(ctx context.Context, msg event.Message) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, CachePrefix)
	}()

	event.PublishAsync(ctx, s.publisher, time.Duration(s.cfg.Events.TimeoutSecs)*time.Second, msg)
}

// conflictFromInsert maps a unique index violation raised by a concurrent insert to the
// domain error the in-transaction checks would have returned.
func conflictFromInsert(err error) error {
	constraint, ok := postgres.UniqueViolation(err)
	if !ok {
		return nil
	}

	switch constraint {
	case model.ConstraintUserStart:
		return model.ErrDoubleBooking
	default:
		return model.ErrSlotTaken
	}
}
