package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// KafkaSink forwards events downstream. Messages are keyed by store and
// product so per-row order is kept within a partition; consumers dedupe on
// the event-id header.
type KafkaSink struct {
	writer MessageWriter
}

func NewKafkaSink(w MessageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

func (k *KafkaSink) Name() string {
	return "kafka-inventory-events"
}

func (k *KafkaSink) Handle(ctx context.Context, ev model.InventoryEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d:%d", ev.StoreID, ev.ProductID)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(ev.EventID)},
			{Key: "event-type", Value: []byte(ev.Type)},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: ev.Timestamp,
	}
	if ev.ReferenceID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "reference-id", Value: []byte(ev.ReferenceID)})
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event %s: %w", ev.EventID, err)
	}
	return nil
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
