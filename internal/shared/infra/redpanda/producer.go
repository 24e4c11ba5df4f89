// Package redpanda implements the Kafka delivery sink for outbox events.
// It is the alternative to HTTP delivery: the processor hands it the same
// event id and payload, and the id travels as a record header so consumers
// can deduplicate redeliveries.
package redpanda

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer sends outbox events to a Redpanda (Kafka-compatible) topic.
type Producer struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewProducer creates a producer for the given topic.
func NewProducer(brokers []string, topic string, logger *slog.Logger) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redpanda client: %w", err)
	}

	return &Producer{
		client: client,
		topic:  topic,
		logger: logger.With("component", "redpanda-producer"),
	}, nil
}

// SendEvent publishes one event payload. The record is keyed by event id
// so redeliveries of the same staged event land on one partition.
func (p *Producer) SendEvent(ctx context.Context, eventID string, payload []byte) error {
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(eventID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "x-event-id", Value: []byte(eventID)},
		},
	}

	// Synchronous produce so the caller can charge the delivery attempt.
	results := p.client.ProduceSync(ctx, record)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}

	p.logger.Debug("event published",
		"topic", p.topic,
		"event_id", eventID,
	)

	return nil
}

// Close closes the producer connection.
func (p *Producer) Close() {
	p.client.Close()
	p.logger.Info("Redpanda producer closed")
}
