// Package kafka consumes order events pushed by the platform backend and
// applies them to the local cache. Events carry full snapshots, so applying
// the same event twice converges to the same local state.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/IBM/sarama"
)

// SnapshotApplier applies an authoritative order snapshot to local state.
// Satisfied by the sync reconciler.
type SnapshotApplier interface {
	ApplyOrderSnapshot(ctx context.Context, snapshot ports.OrderSnapshot) error
}

// orderChangedMessage is the wire format of a backend order push.
type orderChangedMessage struct {
	OrderID    string  `json:"order_id"`
	Status     string  `json:"status"`
	DriverID   *string `json:"driver_id,omitempty"`
	OccurredAt string  `json:"occurred_at"`
}

// OrderEventConsumer is a consumer group member that feeds backend order
// pushes into the snapshot applier. Messages that cannot be parsed are
// logged and skipped; messages that fail to apply are retried by not
// advancing the group offset.
type OrderEventConsumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	applier SnapshotApplier
	log     *slog.Logger
	wg      sync.WaitGroup
}

// NewOrderEventConsumer creates a consumer group member for order pushes.
func NewOrderEventConsumer(
	brokers []string,
	groupID string,
	topics []string,
	applier SnapshotApplier,
	log *slog.Logger,
) (*OrderEventConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer group: %w", err)
	}

	return &OrderEventConsumer{
		group:   group,
		topics:  topics,
		applier: applier,
		log:     log.With("component", "kafka_consumer"),
	}, nil
}

// Start begins consuming until the context is cancelled.
func (c *OrderEventConsumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			// Consume returns on every rebalance and must be called again.
			if err := c.group.Consume(ctx, c.topics, c); err != nil {
				c.log.Error("consume failed", "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			c.log.Error("consumer group error", "error", err)
		}
	}()

	c.log.Info("kafka consumer started", "topics", c.topics)
}

// Stop closes the consumer group and waits for in-flight work.
func (c *OrderEventConsumer) Stop() error {
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("close kafka consumer group: %w", err)
	}
	c.wg.Wait()
	return nil
}

// Setup implements sarama.ConsumerGroupHandler.
func (c *OrderEventConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup implements sarama.ConsumerGroupHandler.
func (c *OrderEventConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim applies messages from one partition in order.
func (c *OrderEventConsumer) ConsumeClaim(
	session sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			snapshot, err := parseOrderChanged(message.Value)
			if err != nil {
				// malformed messages never become applicable, drop them
				c.log.Warn("dropping unparseable order event",
					"topic", message.Topic,
					"offset", message.Offset,
					"error", err)
				session.MarkMessage(message, "")
				continue
			}

			if err := c.applier.ApplyOrderSnapshot(session.Context(), snapshot); err != nil {
				c.log.Error("failed to apply order event, will retry",
					"order_id", snapshot.OrderID.String(),
					"error", err)
				continue
			}

			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// parseOrderChanged converts a raw message into an order snapshot.
func parseOrderChanged(value []byte) (ports.OrderSnapshot, error) {
	var msg orderChangedMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return ports.OrderSnapshot{}, fmt.Errorf("decode order event: %w", err)
	}

	orderID, err := kernel.UUIDFromString(msg.OrderID)
	if err != nil {
		return ports.OrderSnapshot{}, err
	}

	var driverID *kernel.UUID
	if msg.DriverID != nil {
		id, idErr := kernel.UUIDFromString(*msg.DriverID)
		if idErr != nil {
			return ports.OrderSnapshot{}, idErr
		}
		driverID = &id
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, msg.OccurredAt)
	if err != nil {
		return ports.OrderSnapshot{}, fmt.Errorf("decode order event timestamp: %w", err)
	}

	return ports.OrderSnapshot{
		OrderID:   orderID,
		Status:    msg.Status,
		DriverID:  driverID,
		UpdatedAt: updatedAt,
	}, nil
}
