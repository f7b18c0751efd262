package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/event"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventTypeOrderCreated = "OrderCreated"

// MessageReader is the consumer-group side of *kafka.Reader. Offsets are
// committed explicitly, only once a message is fully handled.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}

// InventoryListener turns OrderCreated events into stock-outs. Each order
// line is claimed in the deduplicator first, so redelivered orders do not
// deduct twice. A message whose lines failed transiently is retried in place
// and its offset is not committed until every line is applied or rejected.
type InventoryListener struct {
	reader  MessageReader
	uc      inventory.UseCase
	dedup   event.Deduplicator
	logger  logger.ZapLogger
	metrics *metrics.Metrics
	// retryDelay is the pause after a failed read and the first pause before
	// reprocessing a message.
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

func NewInventoryListener(reader MessageReader, uc inventory.UseCase, dedup event.Deduplicator, log logger.ZapLogger, m *metrics.Metrics) *InventoryListener {
	return &InventoryListener{
		reader:        reader,
		uc:            uc,
		dedup:         dedup,
		logger:        log,
		metrics:       m,
		retryDelay:    time.Second,
		maxRetryDelay: 30 * time.Second,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to fetch kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.retryDelay):
				}
				continue
			}

			if err := l.handle(ctx, msg); err != nil {
				// Left uncommitted; the group redelivers it after restart.
				l.logger.Warn("Stopped before order message was handled",
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
				return
			}
			if err := l.reader.CommitMessages(ctx, msg); err != nil {
				l.logger.Error("Failed to commit kafka message", zap.Int64("offset", msg.Offset), zap.Error(err))
			}
		}
	}
}

// handle processes msg until no line fails transiently. It only returns an
// error when ctx ends first.
func (l *InventoryListener) handle(ctx context.Context, msg kafka.Message) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.retryDelay
	b.MaxInterval = l.maxRetryDelay
	b.MaxElapsedTime = 0

	return backoff.RetryNotify(
		func() error { return l.processMessage(ctx, msg.Value) },
		backoff.WithContext(b, ctx),
		func(err error, wait time.Duration) {
			l.logger.Warn("Retrying order message",
				zap.Int64("offset", msg.Offset),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		},
	)
}

func (l *InventoryListener) Close() error {
	return l.reader.Close()
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID      string             `json:"id"`
	StoreID int64              `json:"store_id"`
	Items   []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// dedupKey identifies one order line. The line index keeps repeated products
// within an order distinct.
func dedupKey(orderID string, line int) string {
	return fmt.Sprintf("order:%s:item:%d", orderID, line)
}

// processMessage returns the joined transient failures of the message's
// lines. Malformed and unrelated messages are not errors.
func (l *InventoryListener) processMessage(ctx context.Context, value []byte) error {
	var ev OrderCreatedEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		l.metrics.RecordOrderConsumed("malformed")
		return nil
	}

	if ev.EventType != EventTypeOrderCreated {
		return nil
	}

	log := l.logger.With(zap.String("order_id", ev.Payload.ID), zap.Int64("store_id", ev.Payload.StoreID))
	log.Info("Processing OrderCreated event")

	var errs []error
	for i, item := range ev.Payload.Items {
		if err := l.processItem(ctx, log, &ev.Payload, i, item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *InventoryListener) processItem(ctx context.Context, log logger.ZapLogger, order *OrderPayload, line int, item OrderItemPayload) error {
	log = log.With(zap.Int("line", line), zap.Int64("product_id", item.ProductID))
	key := dedupKey(order.ID, line)
	claimed, err := l.dedup.Claim(ctx, key)
	if err != nil {
		// Without the claim there is no way to tell a redelivery apart.
		log.Error("Failed to claim order item", zap.Error(err))
		l.metrics.RecordOrderConsumed("error")
		return fmt.Errorf("claim %s: %w", key, err)
	}
	if !claimed {
		log.Debug("Skipping already processed order item")
		l.metrics.RecordOrderConsumed("duplicate")
		return nil
	}

	_, err = l.uc.StockOut(ctx, &dto.MovementInput{
		StoreID:     order.StoreID,
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		ReferenceID: order.ID,
		Notes:       "Order Sale",
	})
	if err == nil {
		l.metrics.RecordOrderConsumed("applied")
		return nil
	}

	if apperror.IsBusiness(err) {
		log.Warn("Order item rejected", zap.Error(err))
		l.metrics.RecordOrderConsumed("rejected")
		return nil
	}

	// Transient failure: free the claim so the retry can apply it.
	log.Error("Failed to apply stock-out for order item", zap.Error(err))
	l.metrics.RecordOrderConsumed("error")
	if rerr := l.dedup.Release(context.WithoutCancel(ctx), key); rerr != nil {
		log.Error("Failed to release order item claim", zap.String("key", key), zap.Error(rerr))
	}
	return fmt.Errorf("stock-out %s: %w", key, err)
}
