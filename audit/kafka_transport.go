package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/blogem/insurance-rates/models"
)

// KafkaTransport publishes events to a Kafka topic; the log service consumes
// the topic and stores what it reads.
type KafkaTransport struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaTransport connects a synchronous producer to brokers.
func NewKafkaTransport(brokers []string, topic string) (*KafkaTransport, error) {
	config := sarama.NewConfig()
	config.ClientID = "ratesvc-audit"
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	// The dispatcher owns retries; keep the producer's own short.
	config.Producer.Retry.Max = 1
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaTransportWithProducer(producer, topic), nil
}

// NewKafkaTransportWithProducer wraps an existing producer.
func NewKafkaTransportWithProducer(producer sarama.SyncProducer, topic string) *KafkaTransport {
	return &KafkaTransport{producer: producer, topic: topic}
}

// Send publishes one message per event, keyed by action. sarama does not
// take a context, so a cancelled ctx is only checked before publishing; the
// producer timeout bounds the call itself.
func (t *KafkaTransport) Send(ctx context.Context, events []models.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish audit events: %w", err)
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			return Permanent(fmt.Errorf("marshal event %s: %w", evt.EventID, err))
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: t.topic,
			Key:   sarama.StringEncoder(evt.Action),
			Value: sarama.ByteEncoder(data),
			Headers: []sarama.RecordHeader{
				{Key: []byte("event_id"), Value: []byte(evt.EventID)},
			},
		})
	}

	if err := t.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("publish audit events: %w", err)
	}
	return nil
}

// Close shuts down the producer.
func (t *KafkaTransport) Close() error {
	return t.producer.Close()
}
