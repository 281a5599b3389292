// Package kafkabus publishes outbox messages to a Kafka topic.
package kafkabus

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Header keys set on every published message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderTenantID  = "tenant-id"
)

// messageWriter is the part of *kafka.Writer the bus needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventBus implements ports.EventBus on a kafka-go writer.
type EventBus struct {
	writer messageWriter
}

// NewWriter builds a writer for topic. Messages are partitioned by key, so
// events of one order keep their relative order.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewEventBus creates a bus writing through writer.
func NewEventBus(writer messageWriter) *EventBus {
	return &EventBus{writer: writer}
}

// Publish writes the messages in one batch.
func (b *EventBus) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}
	if err := b.writer.WriteMessages(ctx, ToKafkaMessages(messages)...); err != nil {
		return fmt.Errorf("publish %d events: %w", len(messages), err)
	}
	return nil
}

// Close flushes and closes the writer.
func (b *EventBus) Close() error {
	return b.writer.Close()
}

// ToKafkaMessages maps outbox messages to Kafka records keyed by order id.
func ToKafkaMessages(messages []ports.OutboxMessage) []kafka.Message {
	out := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, kafka.Message{
			Key:   []byte(m.AggregateID.String()),
			Value: m.Payload,
			Time:  m.OccurredAt,
			Headers: []kafka.Header{
				{Key: HeaderEventID, Value: []byte(m.ID.String())},
				{Key: HeaderEventType, Value: []byte(m.EventType)},
				{Key: HeaderTenantID, Value: []byte(m.TenantID.String())},
			},
		})
	}
	return out
}
