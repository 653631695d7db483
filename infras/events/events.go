package events

import (
	"campus/config"
	"campus/infras/kafka"
	"campus/infras/otel"
	"campus/infras/rabbitmq"
	"campus/shared/constant"
	"campus/shared/event"

	"github.com/rs/zerolog/log"
)

// New selects the event backend from EVENTS_DRIVER. A broker that cannot be reached at
// startup degrades to the no-op publisher so reservations keep working without events.
func New(cfg *config.Config, otl otel.Otel) event.Publisher {
	switch cfg.Events.Driver {
	case constant.EventsDriverKafka:
		return kafka.New(cfg, otl)
	case constant.EventsDriverRabbitMQ:
		publisher, err := rabbitmq.New(cfg, otl)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize RabbitMQ publisher, events disabled")

			return event.NewNoopPublisher()
		}

		return publisher
	case constant.EventsDriverNone, constant.Empty:
		log.Info().Msg("Events driver disabled")

		return event.NewNoopPublisher()
	default:
		log.Warn().Str("driver", cfg.Events.Driver).Msg("Unknown events driver, events disabled")

		return event.NewNoopPublisher()
	}
}
