package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/anandMohanan/staybase/internal/domain/event"
)

// envelope is the wire form of a published domain event.
type envelope struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	OrganizationID string          `json:"organizationId"`
	OccurredAt     time.Time       `json:"occurredAt"`
	Payload        json.RawMessage `json:"payload"`
}

// KafkaPublisher publishes domain events to a single Kafka topic, keyed by
// organization so events for one tenant stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a KafkaPublisher writing to topic on broker.
func NewKafkaPublisher(broker, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(broker),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

// Publish writes one or more domain events to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		value, err := json.Marshal(envelope{
			ID:             evt.EventID().String(),
			Type:           evt.EventType(),
			OrganizationID: evt.OrganizationID(),
			OccurredAt:     evt.OccurredAt(),
			Payload:        evt.Payload(),
		})
		if err != nil {
			return fmt.Errorf("messaging: marshal event %s: %w", evt.EventType(), err)
		}
		messages = append(messages, kafkago.Message{
			Key:   []byte(evt.OrganizationID()),
			Value: value,
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("messaging: publish %d events: %w", len(messages), err)
	}

	for _, evt := range events {
		p.logger.Debug("published event",
			"event_type", evt.EventType(),
			"event_id", evt.EventID().String(),
			"organization_id", evt.OrganizationID(),
		)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
