package events

import (
	"context"
	"fmt"
	"time"

	"hotel/internal/config"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder republishes bus events to a Kafka topic.
type KafkaForwarder struct {
	writer messageWriter
	logger *zerolog.Logger
}

// NewKafkaForwarder builds an async writer: WriteMessages only enqueues, so a
// slow or unreachable broker never blocks a ledger operation. Delivery
// failures are reported through Completion.
func NewKafkaForwarder(cfg config.KafkaConfig, logger *zerolog.Logger) *KafkaForwarder {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion:   completionLogger(logger),
	}
	return &KafkaForwarder{writer: writer, logger: logger}
}

func completionLogger(logger *zerolog.Logger) func(messages []kafka.Message, err error) {
	return func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		logger.Error().Err(err).Int("messages", len(messages)).Msg("Failed to deliver events to Kafka")
	}
}

// Attach subscribes the forwarder to the given event types.
func (f *KafkaForwarder) Attach(bus *EventBus, eventTypes ...string) {
	for _, t := range eventTypes {
		bus.Subscribe(t, f.Handle)
	}
}

// Handle hands one event to the writer. Failures are logged; the ledger operation already committed.
func (f *KafkaForwarder) Handle(event *Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: event.Payload,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		f.logger.Error().Err(err).Str("event", event.Type).Msg("Failed to forward event to Kafka")
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (f *KafkaForwarder) Close() error {
	if f.writer != nil {
		return f.writer.Close()
	}
	return nil
}
