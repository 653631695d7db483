// Package sweeper removes reservations that ended before the current day.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"campus/config"
	"campus/infras/otel"
	"campus/internal/domains/booking/repository"
	"campus/internal/domains/booking/service"
	"campus/internal/domains/booking/slot"
	"campus/shared"
	"campus/shared/cache"
	"campus/shared/constant"
	"campus/shared/event"
	"campus/shared/timezone"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type Result struct {
	Before  string `json:"before"`
	Deleted int64  `json:"deleted"`
}

type Sweeper interface {
	// Run deletes every booking whose end precedes the start of today. Running it twice on
	// the same day is a no-op the second time.
	Run(ctx context.Context) (Result, error)
	Start() error
	Stop(ctx context.Context) error
}

type sweeperImpl struct {
	repo      repository.Booking
	resolver  *slot.Resolver
	cfg       *config.Config
	cache     cache.RedisCache
	publisher event.Publisher
	otel      otel.Otel
	cron      *cron.Cron
}

func New(
	repo repository.Booking,
	resolver *slot.Resolver,
	cfg *config.Config,
	cache cache.RedisCache,
	publisher event.Publisher,
	otel otel.Otel,
) Sweeper {
	cronLogger := cron.PrintfLogger(&log.Logger)

	return &sweeperImpl{
		repo:      repo,
		resolver:  resolver,
		cfg:       cfg,
		cache:     cache,
		publisher: publisher,
		otel:      otel,
		cron: cron.New(
			cron.WithLocation(timezone.GetLocation()),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}
}

func (s *sweeperImpl) Run(ctx context.Context) (res Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+".booking.Sweep")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	before := s.resolver.StartOfToday()
	res.Before = timezone.Format(before, constant.DateFormat)

	res.Deleted, err = s.repo.DeleteBefore(ctx, before)
	if err != nil {
		log.Error().Err(err).Str("before", res.Before).Msg("failed to sweep bookings")

		return res, fmt.Errorf("failed to sweep bookings: %w", err)
	}

	log.Info().Str("before", res.Before).Int64("deleted", res.Deleted).Msg("booking sweep finished")

	if res.Deleted > 0 {
		go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, service.CachePrefix)
	}

	event.PublishAsync(ctx, s.publisher, time.Duration(s.cfg.Events.TimeoutSecs)*time.Second,
		event.NewMessage(event.TopicBookingSwept, res.Before, res))

	return res, nil
}

// Start registers the daily run. Failures are logged and not retried: the next run deletes
// whatever this one left behind.
func (s *sweeperImpl) Start() error {
	if !s.cfg.Reservation.SweepEnable {
		log.Info().Msg("booking sweeper disabled")

		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Reservation.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Reservation.SweepTimeoutSecs)*time.Second)
		defer cancel()

		_, _ = s.Run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule booking sweep %q: %w", s.cfg.Reservation.SweepSchedule, err)
	}

	s.cron.Start()

	log.Info().Str("schedule", s.cfg.Reservation.SweepSchedule).Msg("booking sweeper started")

	return nil
}

// Stop waits for a running sweep to finish or for ctx to expire.
func (s *sweeperImpl) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop booking sweeper: %w", ctx.Err())
	}
}
