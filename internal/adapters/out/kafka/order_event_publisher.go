// Package kafka publishes order lifecycle events to the message bus.
// Events are keyed by order id so every consumer sees one order's
// transitions in the order they were applied.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/order"

	"github.com/IBM/sarama"
)

// OrderChangedEvent is the wire format of one applied order transition.
type OrderChangedEvent struct {
	EventID     string  `json:"event_id"`
	OrderID     string  `json:"order_id"`
	BuyerID     string  `json:"buyer_id"`
	MerchantID  string  `json:"merchant_id"`
	Status      string  `json:"status"`
	DriverID    *string `json:"driver_id,omitempty"`
	TotalAmount int64   `json:"total_amount"`
	OccurredAt  string  `json:"occurred_at"`
}

// OrderEventPublisher publishes order-changed events via a synchronous
// producer: a nil return means the broker acknowledged the write.
type OrderEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

// NewOrderEventPublisher creates a publisher connected to the given brokers.
// The producer is idempotent and waits for all in-sync replicas, so a
// committed transition is never silently dropped by the bus.
func NewOrderEventPublisher(brokers []string, topic string, log *slog.Logger) (*OrderEventPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &OrderEventPublisher{
		producer: producer,
		topic:    topic,
		log:      log.With("component", "kafka_publisher"),
	}, nil
}

// PublishOrderChanged emits the order's current state after a transition.
func (p *OrderEventPublisher) PublishOrderChanged(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(newOrderChangedEvent(aggregate))
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(aggregate.ID().String()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send order event: %w", err)
	}

	p.log.Debug("order event published",
		"order_id", aggregate.ID().String(),
		"status", aggregate.Status().String(),
		"partition", partition,
		"offset", offset)
	return nil
}

// Close shuts down the underlying producer.
func (p *OrderEventPublisher) Close() error {
	return p.producer.Close()
}

func newOrderChangedEvent(aggregate *order.Order) OrderChangedEvent {
	var driverID *string
	if id := aggregate.Driver(); id != nil {
		raw := id.String()
		driverID = &raw
	}

	occurredAt := aggregate.CreatedAt()
	if history := aggregate.History(); len(history) > 0 {
		occurredAt = history[len(history)-1].At
	}

	return OrderChangedEvent{
		EventID:     aggregate.ID().String() + ":" + aggregate.Status().String(),
		OrderID:     aggregate.ID().String(),
		BuyerID:     aggregate.BuyerID().String(),
		MerchantID:  aggregate.MerchantID().String(),
		Status:      aggregate.Status().String(),
		DriverID:    driverID,
		TotalAmount: aggregate.TotalAmount().Amount(),
		OccurredAt:  occurredAt.UTC().Format(time.RFC3339Nano),
	}
}
