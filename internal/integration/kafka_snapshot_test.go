//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/weather-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-dashboard-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-dashboard-service/internal/config"
	"github.com/couchcryptid/weather-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
	"github.com/couchcryptid/weather-dashboard-service/internal/observability"
)

const testSnapshotTopic = "test-forecast-snapshots"

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0", kafka.WithClusterID("weather-dashboard-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestSnapshotPublishedToKafka loads a city through the full service and
// verifies the accepted snapshot lands on the sink topic.
func TestSnapshotPublishedToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSnapshotTopic: testSnapshotTopic,
	}
	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	upstream := httptest.NewServer(newFakeOpenMeteo())
	t.Cleanup(upstream.Close)

	metrics := observability.NewMetricsForTesting()
	client := openmeteo.NewClient(upstream.URL, upstream.URL, 5*time.Second, metrics, discardLogger())
	svc := dashboard.New(domain.NewResolver(client), client, writer, "San Francisco", domain.Imperial, discardLogger(), metrics)

	snap, err := svc.LoadCity(ctx, "Paris", domain.Metric)
	require.NoError(t, err)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSnapshotTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from snapshot topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}

	assert.Equal(t, "Paris, France", string(msg.Key))
	assert.Equal(t, "Clear", headers["condition"])
	assert.Equal(t, "°C", headers["temperature_unit"])
	_, err = time.Parse(time.RFC3339, headers["published_at"])
	assert.NoError(t, err, "published_at should be valid RFC3339")

	var published domain.ForecastSnapshot
	require.NoError(t, json.Unmarshal(msg.Value, &published))
	assert.Equal(t, snap, published)
}
