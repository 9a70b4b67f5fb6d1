// Package ingest feeds audit events published on Kafka into the log store.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/cenkalti/backoff"

	"github.com/blogem/insurance-rates/audit"
	"github.com/blogem/insurance-rates/models"
)

// Consumer reads audit events from a Kafka consumer group. A message's offset
// is marked only once its event is stored, so anything unstored is read again
// after a rebalance or restart.
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler *handler
	logger  *slog.Logger
}

// Option configures a Consumer
type Option func(*Consumer)

// WithRetry bounds how long a failing store is retried before the claim is abandoned
func WithRetry(initial, maxElapsed time.Duration) Option {
	return func(c *Consumer) {
		c.handler.retryInitial = initial
		c.handler.retryMaxElapsed = maxElapsed
	}
}

// WithLogger sets the consumer logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
		c.handler.logger = logger
	}
}

// NewConsumer joins groupID on brokers and consumes topic
func NewConsumer(brokers []string, groupID, topic string, ingester audit.Ingester, opts ...Option) (*Consumer, error) {
	config := sarama.NewConfig()
	config.ClientID = "logsvc-ingest"
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer group: %w", err)
	}
	return NewConsumerWithGroup(group, topic, ingester, opts...), nil
}

// NewConsumerWithGroup wraps an existing consumer group
func NewConsumerWithGroup(group sarama.ConsumerGroup, topic string, ingester audit.Ingester, opts ...Option) *Consumer {
	c := &Consumer{
		group:  group,
		topics: []string{topic},
		logger: slog.Default(),
		handler: &handler{
			ingester:        ingester,
			retryInitial:    200 * time.Millisecond,
			retryMaxElapsed: time.Minute,
			logger:          slog.Default(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until ctx is cancelled or the group is closed
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("kafka consumer error", "error", err)
		}
	}()

	for {
		if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("consume %v: %w", c.topics, err)
		}
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Info("kafka consumer group rebalanced", "topics", c.topics)
	}
}

// Close leaves the consumer group
func (c *Consumer) Close() error {
	return c.group.Close()
}

// handler implements sarama.ConsumerGroupHandler
type handler struct {
	ingester        audit.Ingester
	retryInitial    time.Duration
	retryMaxElapsed time.Duration
	logger          *slog.Logger
}

func (h *handler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *handler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.handle(sess.Context(), msg); err != nil {
				return err
			}
			sess.MarkMessage(msg, "")
		case <-sess.Context().Done():
			return nil
		}
	}
}

// handle stores the event carried by msg. A nil return means the message
// may be marked: it was stored, or it can never be stored.
func (h *handler) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	logger := h.logger.With("topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)

	var evt models.AuditEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		logger.Error("skipping malformed audit message", "error", err)
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = h.retryInitial
	b.MaxElapsedTime = h.retryMaxElapsed

	err := backoff.RetryNotify(func() error {
		_, err := h.ingester.Ingest(ctx, []models.AuditEvent{evt})
		if errors.Is(err, models.ErrValidation) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logger.Warn("storing audit event failed, retrying", "event_id", evt.EventID, "error", err, "retry_in", wait)
	})

	if errors.Is(err, models.ErrValidation) {
		logger.Error("skipping invalid audit event", "event_id", evt.EventID, "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("store audit event %s: %w", evt.EventID, err)
	}
	return nil
}
