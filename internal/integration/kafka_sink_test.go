//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/pws-advisor-service/internal/adapter/filesink"
	"github.com/couchcryptid/pws-advisor-service/internal/adapter/kafka"
	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/config"
	"github.com/couchcryptid/pws-advisor-service/internal/domain"
	"github.com/couchcryptid/pws-advisor-service/internal/emit"
	"github.com/couchcryptid/pws-advisor-service/internal/observability"
	"github.com/couchcryptid/pws-advisor-service/internal/plan"
)

const testDocumentTopic = "test-documents"

// publishedDocument holds a document read back from the topic.
type publishedDocument struct {
	Key     string
	Content string
	Headers map[string]string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("pws-advisor-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func readDocument(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedDocument {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from document topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return publishedDocument{Key: string(msg.Key), Content: string(msg.Value), Headers: headers}
}

// TestDocumentEmission renders a plan and sends it through the dispatcher to
// both the file sink and a real Kafka topic.
func TestDocumentEmission(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testDocumentTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaDocumentTopic: testDocumentTopic,
		KafkaEnabled:       true,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	dir := t.TempDir()
	metrics := observability.NewMetricsForTesting()
	dispatcher := emit.NewDispatcher(metrics, discardLogger(), filesink.New(dir, discardLogger()), writer)

	p := plan.Default()
	p.System.PWSID = "OK1020304"
	p.System.PWSName = "Rural Water District 3"
	records := plan.Records{
		Systems:    []domain.SystemRecord{{PWSID: "OK1020304", Name: "Rural Water District 3", County: "Logan"}},
		Violations: []domain.Violation{{SystemID: "OK1020304", Code: "V01", Significant: "Y"}},
	}

	var docs []compose.Document
	for _, kind := range compose.Kinds {
		docs = append(docs, plan.Render(kind, p, records))
	}
	for _, doc := range docs {
		for _, res := range dispatcher.Emit(ctx, doc) {
			require.True(t, res.OK(), "sink %s: %s", res.Sink, res.Error)
		}
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testDocumentTopic,
		GroupID:     fmt.Sprintf("test-documents-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for _, want := range docs {
		got := readDocument(ctx, t, consumer)

		_, err := uuid.Parse(got.Key)
		assert.NoError(t, err, "key should be an emission id")
		assert.Equal(t, string(want.Kind), got.Headers["kind"])
		assert.Equal(t, want.Filename, got.Headers["filename"])
		assert.Equal(t, "text/markdown; charset=utf-8", got.Headers["content_type"])
		_, err = time.Parse(time.RFC3339, got.Headers["emitted_at"])
		assert.NoError(t, err, "emitted_at should be valid RFC3339")
		assert.Equal(t, want.Content, got.Content)

		onDisk, err := os.ReadFile(filepath.Join(dir, want.Filename))
		require.NoError(t, err)
		assert.Equal(t, want.Content, string(onDisk))
	}
}

// TestDocumentEmission_BrokerDown checks that a dead broker fails only the
// Kafka sink.
func TestDocumentEmission_BrokerDown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaDocumentTopic: testDocumentTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	dir := t.TempDir()
	dispatcher := emit.NewDispatcher(observability.NewMetricsForTesting(), discardLogger(), filesink.New(dir, discardLogger()), writer)

	emitCtx, emitCancel := context.WithTimeout(ctx, 10*time.Second)
	defer emitCancel()
	results := dispatcher.Emit(emitCtx, plan.Render(compose.KindTMFActions, plan.Default(), plan.Records{}))

	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.FileExists(t, filepath.Join(dir, "TMFActions_PWS.md"))
}
