package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DefaultKafkaPublisher writes ledger events to a single topic. Events of
// one company share a key and therefore a partition.
type DefaultKafkaPublisher struct {
	writer     messageWriter
	topic      string
	maxRetries int
}

func NewDefaultKafkaPublisher(brokers []string, topic string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		topic:      topic,
		maxRetries: 3,
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return k.writer.WriteMessages(ctx, km...)
}

func encodeEvent(event domain.LedgerEvent) (domain.Message, error) {
	v, err := json.Marshal(event)
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return domain.Message{Key: []byte(event.CompanyID), Value: v}, nil
}

// PublishLedgerEvent retries with a linear backoff before giving up.
func (k *DefaultKafkaPublisher) PublishLedgerEvent(event domain.LedgerEvent) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}
	for attempt := 1; ; attempt++ {
		err = k.Publish(k.topic, msg)
		if err == nil {
			return nil
		}
		if attempt >= k.maxRetries {
			return fmt.Errorf("publish %s after %d attempts: %w", event.Type, attempt, err)
		}
		slog.Warn("ledger event publish failed", "type", event.Type, "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// NopPublisher drops every event. Setup installs it when kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishLedgerEvent(domain.LedgerEvent) error { return nil }
