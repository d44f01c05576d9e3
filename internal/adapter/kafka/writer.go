package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/config"
)

const markdownContentType = "text/markdown; charset=utf-8"

// Writer publishes generated documents to a Kafka topic, one message per
// document.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured document topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaDocumentTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		// Documents are emitted one at a time; don't hold them for a batch.
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Emit publishes doc under a fresh emission id.
func (w *Writer) Emit(ctx context.Context, doc compose.Document) error {
	id := uuid.NewString()
	if err := w.writer.WriteMessages(ctx, serializeToMessage(doc, id, time.Now().UTC())); err != nil {
		return fmt.Errorf("publish %s: %w", doc.Filename, err)
	}
	w.logger.Debug("document published", "filename", doc.Filename, "emission_id", id)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage wraps a document in a Kafka message. The value is the
// Markdown body as-is; metadata travels in headers.
func serializeToMessage(doc compose.Document, id string, emittedAt time.Time) kafkago.Message {
	return kafkago.Message{
		Key:   []byte(id),
		Value: []byte(doc.Content),
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(doc.Kind)},
			{Key: "filename", Value: []byte(doc.Filename)},
			{Key: "content_type", Value: []byte(markdownContentType)},
			{Key: "emitted_at", Value: []byte(emittedAt.Format(time.RFC3339))},
		},
	}
}
