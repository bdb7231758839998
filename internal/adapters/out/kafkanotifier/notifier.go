// Package kafkanotifier publishes dispatch events to a Kafka topic as JSON,
// keyed by order so every event of one order lands on the same partition.
package kafkanotifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderdispatch/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event-type"

// MessageWriter is the subset of *kafka.Writer the notifier uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter builds a writer for topic that hashes message keys to partitions.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

// Notifier implements ports.DispatchNotifier.
type Notifier struct {
	writer MessageWriter
}

func NewNotifier(writer MessageWriter) *Notifier {
	return &Notifier{writer: writer}
}

type locationMessage struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type eventMessage struct {
	Type       string           `json:"type"`
	OrderID    string           `json:"orderId"`
	DriverID   string           `json:"driverId,omitempty"`
	Location   *locationMessage `json:"location,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// Publish writes all events in one batch.
func (n *Notifier) Publish(ctx context.Context, events ...ports.DispatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := toMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := n.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d dispatch events: %w", len(msgs), err)
	}
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

func toMessage(e ports.DispatchEvent) (kafka.Message, error) {
	body := eventMessage{
		Type:       string(e.Type),
		OrderID:    e.OrderID.String(),
		OccurredAt: e.OccurredAt.UTC(),
	}
	if e.DriverID != nil {
		body.DriverID = e.DriverID.String()
	}
	if e.Location != nil {
		body.Location = &locationMessage{Lat: e.Location.Lat(), Lng: e.Location.Lng()}
	}

	value, err := json.Marshal(body)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal %s event: %w", e.Type, err)
	}

	return kafka.Message{
		Key:   []byte(body.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(body.Type)},
		},
		Time: body.OccurredAt,
	}, nil
}
