// Package publish announces persisted recommendation batches on a Kafka
// topic so downstream services (notifications, dashboards) can react.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/pdiddy/crop-engine/pkg/types"
)

// EventType is the event_type header carried by every message.
const EventType = "recommendations.generated"

// messageWriter is the subset of *kafkago.Writer used by KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes one message per batch. It implements
// recommend.Publisher.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher creates a producer for cfg.Topic. SASL/PLAIN is used
// when cfg carries both a username and a password.
func NewKafkaPublisher(cfg types.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	if cfg.Username != "" && cfg.Password != "" {
		w.Transport = &kafkago.Transport{
			SASL: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
		}
	}
	return &KafkaPublisher{writer: w, topic: cfg.Topic, logger: logger}
}

// Publish serializes batch and writes it keyed by farmer ID so a farmer's
// batches stay ordered within one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, batch types.RecommendationBatch) error {
	msg, err := serializeToMessage(batch)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing to topic %s: %w", p.topic, err)
	}
	p.logger.Debug("published recommendations", "farmer_id", batch.FarmerID, "topic", p.topic)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(batch types.RecommendationBatch) (kafkago.Message, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize recommendation batch: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(batch.FarmerID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "created_at", Value: []byte(batch.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
