package event

import (
	"context"
	"time"

	"campus/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	TopicBookingCreated    = "booking.created"
	TopicBookingCancelled  = "booking.cancelled"
	TopicBookingSwept      = "booking.swept"
	TopicRoomStatusChanged = "room.status_changed"
	TopicStrikeIssued      = "strike.issued"
	defaultPublishTimeout  = 5 * time.Second
)

// Message is the envelope every domain event travels in, whatever the broker.
type Message struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func NewMessage(topic, key string, payload any) Message {
	return Message{
		ID:         uuid.NewString(),
		Topic:      topic,
		Key:        key,
		OccurredAt: timezone.Now(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, msg Message) error {
	log.Debug().Str("topic", msg.Topic).Str("key", msg.Key).Msg("event dropped, no driver configured")

	return nil
}

func (noopPublisher) Close() error {
	return nil
}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

// PublishAsync publishes msg in the background after the caller's work has been committed.
// Delivery is best effort: failures are logged and never reach the caller.
func PublishAsync(ctx context.Context, publisher Publisher, timeout time.Duration, msg Message) {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	go func() {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if err := publisher.Publish(c, msg); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic).Str("key", msg.Key).Msg("failed to publish event")
		}
	}()
}
