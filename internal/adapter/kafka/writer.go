package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-dashboard-service/internal/config"
	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
)

// Writer publishes accepted forecast snapshots to a Kafka topic.
// It implements dashboard.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return &Writer{writer: w, clock: clockwork.NewRealClock(), logger: logger}
}

// Publish writes one snapshot, keyed by its location label so updates for the
// same place land on the same partition.
func (w *Writer) Publish(ctx context.Context, snapshot domain.ForecastSnapshot) error {
	msg, err := serializeToMessage(snapshot, w.clock.Now())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	w.logger.Debug("snapshot published", "topic", w.writer.Topic, "location", snapshot.Location)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastSnapshot into a Kafka message.
func serializeToMessage(snapshot domain.ForecastSnapshot, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snapshot.Location),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "condition", Value: []byte(snapshot.Condition)},
			{Key: "temperature_unit", Value: []byte(snapshot.Units.Temperature)},
			{Key: "published_at", Value: []byte(publishedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
