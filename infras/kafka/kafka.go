package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"campus/config"
	"campus/infras/otel"
	"campus/shared/constant"
	"campus/shared/event"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// messageWriter is the subset of *kafkaGo.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// ToKafkaMessage encodes msg as JSON keyed by the aggregate id so events for one room or
// booking stay on one partition.
func ToKafkaMessage(topicPrefix string, msg event.Message) (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Topic: topicPrefix + msg.Topic,
		Key:   []byte(msg.Key),
		Value: jsonValue,
	}, nil
}

type publisherImpl struct {
	config *config.Config
	writer messageWriter
	otel   otel.Otel
}

func New(config *config.Config, otl otel.Otel) event.Publisher {
	var transport *kafkaGo.Transport

	if config.Kafka.SASL.Username != constant.Empty {
		transport = &kafkaGo.Transport{
			SASL: plain.Mechanism{
				Username: config.Kafka.SASL.Username,
				Password: config.Kafka.SASL.Password,
			},
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafkaGo.RequireOne,
	}

	if transport != nil {
		writer.Transport = transport
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka publisher initialized")

	return NewWithWriter(config, writer, otl)
}

func NewWithWriter(config *config.Config, writer messageWriter, otl otel.Otel) event.Publisher {
	return &publisherImpl{
		config: config,
		writer: writer,
		otel:   otl,
	}
}

func (k *publisherImpl) Publish(ctx context.Context, msg event.Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".kafka.Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"messaging.system":      constant.EventsDriverKafka,
		"messaging.destination": msg.Topic,
	})

	kafkaMsg, err := ToKafkaMessage(k.config.Kafka.TopicPrefix, msg)
	if err != nil {
		return err
	}

	err = k.writer.WriteMessages(ctx, kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("topic", kafkaMsg.Topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", kafkaMsg.Topic).Str("key", msg.Key).Msg("Sent message successfully.")

	return nil
}

func (k *publisherImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}
