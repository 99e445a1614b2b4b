package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/merchsys/storefront/internal/domain/model"
)

// OrderEvent is the wire shape published for order lifecycle changes.
type OrderEvent struct {
	TenantID   int64     `json:"tenant_id"`
	OrderRef   string    `json:"order_ref"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publishes order events to Kafka. Publishing is a best-effort side
// channel for downstream consumers; it never fails the business transaction.
type Producer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewProducer builds a Kafka producer for the given brokers and topic.
func NewProducer(brokers []string, topic string, logger *slog.Logger) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
		logger: logger,
	}
}

// PublishOrderEvent emits one order status event keyed by order reference so
// events for the same order stay in partition order.
func (p *Producer) PublishOrderEvent(ctx context.Context, tenantID int64, orderRef string, status model.OrderStatus) {
	value, err := json.Marshal(OrderEvent{
		TenantID:   tenantID,
		OrderRef:   orderRef,
		Status:     string(status),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Error("marshal order event failed", slog.String("error", err.Error()))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderRef),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Warn("publish order event failed",
			slog.String("order", orderRef),
			slog.String("error", err.Error()),
		)
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events when no brokers are configured.
type NopPublisher struct{}

// PublishOrderEvent is a no-op.
func (NopPublisher) PublishOrderEvent(context.Context, int64, string, model.OrderStatus) {}
