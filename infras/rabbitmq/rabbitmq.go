package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"campus/config"
	"campus/infras/otel"
	"campus/shared/constant"
	"campus/shared/event"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	exchangeKind = "topic"
)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type publisherImpl struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	otel     otel.Otel
}

// New dials the broker and declares a durable topic exchange. Routing keys are event topics,
// so consumers can bind with patterns such as booking.*.
func New(config *config.Config, otl otel.Otel) (event.Publisher, error) {
	conn, err := amqp.Dial(config.RabbitMQ.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	exchange := config.RabbitMQ.Exchange

	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("failed to declare rabbitmq exchange: %w", err)
	}

	log.Info().Str("exchange", exchange).Msg("RabbitMQ publisher initialized")

	publisher := NewWithChannel(ch, exchange, otl)
	publisher.conn = conn

	return publisher, nil
}

func NewWithChannel(ch channel, exchange string, otl otel.Otel) *publisherImpl {
	return &publisherImpl{
		ch:       ch,
		exchange: exchange,
		otel:     otl,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, msg event.Message) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".rabbitmq.Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"messaging.system":      constant.EventsDriverRabbitMQ,
		"messaging.destination": p.exchange,
		"messaging.routing_key": msg.Topic,
	})

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, msg.Topic, false, false, amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.OccurredAt,
		Type:         msg.Topic,
		Body:         body,
	})
	if err != nil {
		log.Error().Err(err).Str("routing_key", msg.Topic).Msg("Failed to publish message to RabbitMQ.")

		return fmt.Errorf("failed to publish message to RabbitMQ: %w", err)
	}

	return nil
}

func (p *publisherImpl) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close rabbitmq connection: %w", err)
		}
	}

	return nil
}
