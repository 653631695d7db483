package service

import (
	"context"
	"fmt"
	"time"

	"campus/config"
	"campus/infras/otel"
	"campus/internal/domains/penalty/model"
	"campus/internal/domains/penalty/model/dto"
	"campus/internal/domains/penalty/repository"
	userModel "campus/internal/domains/user/model"
	userRepo "campus/internal/domains/user/repository"
	"campus/shared"
	"campus/shared/constant"
	gDto "campus/shared/dto"
	"campus/shared/event"
	"campus/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Penalty tracks strikes. A user holding StrikeLimit or more unexpired strikes may not
// reserve rooms.
type Penalty interface {
	EnsureNotBanned(ctx context.Context, userID string) error
	Issue(ctx context.Context, userID string, req dto.IssueStrikeRequest) (dto.StrikeResponse, error)
	List(ctx context.Context, userID string, params gDto.QueryParams) (dto.GetStrikesResponse, error)
	Revoke(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo      repository.Strike
	userRepo  userRepo.User
	cfg       *config.Config
	publisher event.Publisher
	otel      otel.Otel
	clock     timezone.Clock
}

func New(
	repo repository.Strike,
	userRepo userRepo.User,
	cfg *config.Config,
	publisher event.Publisher,
	otel otel.Otel,
	clock timezone.Clock,
) Penalty {
	return &serviceImpl{
		repo:      repo,
		userRepo:  userRepo,
		cfg:       cfg,
		publisher: publisher,
		otel:      otel,
		clock:     clock,
	}
}

func (s *serviceImpl) banned(active int) bool {
	return s.cfg.Reservation.StrikeLimit > 0 && active >= s.cfg.Reservation.StrikeLimit
}

func (s *serviceImpl) EnsureNotBanned(ctx context.Context, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".penalty.EnsureNotBanned")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	active, err := s.repo.CountActive(ctx, userID, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to count strikes")

		return fmt.Errorf("failed to count strikes: %w", err)
	}

	if s.banned(active) {
		return model.ErrUserBanned // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Issue(ctx context.Context, userID string, req dto.IssueStrikeRequest) (res dto.StrikeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".penalty.Issue")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, userModel.ErrUserNotFound // nolint:wrapcheck
	}

	issuer, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := s.clock.Now()
	ttl := time.Duration(s.cfg.Reservation.StrikeTTLDays) * constant.HoursPerDay * time.Hour

	strike := req.ToModel(userID, issuer, now, ttl)

	strike.ID, err = s.repo.Insert(ctx, strike)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue strike")

		return res, fmt.Errorf("failed to issue strike: %w", err)
	}

	res.FromModel(strike, now)

	log.Info().Str("user_id", userID).Str("by", issuer).Int64("strike_id", strike.ID).Msg("strike issued")

	event.PublishAsync(ctx, s.publisher, time.Duration(s.cfg.Events.TimeoutSecs)*time.Second,
		event.NewMessage(event.TopicStrikeIssued, userID, res))

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, userID string, params gDto.QueryParams) (res dto.GetStrikesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".penalty.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(userID, model.FieldUserID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count strikes")

		return res, fmt.Errorf("failed to count strikes: %w", err)
	}

	strikes, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get strikes")

		return res, fmt.Errorf("failed to get strikes: %w", err)
	}

	now := s.clock.Now()

	active, err := s.repo.CountActive(ctx, userID, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to count active strikes")

		return res, fmt.Errorf("failed to count active strikes: %w", err)
	}

	res.FromModels(strikes, total, params.Limit, now)
	res.Active = active
	res.Banned = s.banned(active)

	return res, nil
}

func (s *serviceImpl) Revoke(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".penalty.Revoke")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	strike, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get strike")

		return fmt.Errorf("failed to get strike: %w", err)
	}

	if strike.ID == 0 {
		return model.ErrStrikeNotFound // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Msg("failed to revoke strike")

		return fmt.Errorf("failed to revoke strike: %w", err)
	}

	issuer, _ := ctx.Value(constant.ContextKeyUserID).(string)
	log.Info().Int64("strike_id", id).Str("user_id", strike.UserID).Str("by", issuer).Msg("strike revoked")

	return nil
}
