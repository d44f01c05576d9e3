package emit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/observability"
)

type recordingSink struct {
	name string
	err  error

	mu   sync.Mutex
	docs []compose.Document
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Emit(_ context.Context, doc compose.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return s.err
}

func TestDispatcher_FansOutAndContinuesPastFailures(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	broken := &recordingSink{name: "kafka", err: errors.New("no brokers")}
	file := &recordingSink{name: "file"}
	d := NewDispatcher(metrics, slog.New(slog.NewTextHandler(io.Discard, nil)), broken, file)

	doc := compose.Document{Kind: compose.KindEnergyAudit, Filename: "EnergyAudit_PWS.md", Content: "x"}
	got := d.Emit(context.Background(), doc)

	want := []Result{
		{Sink: "kafka", Error: "no brokers"},
		{Sink: "file"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got[0].OK())
	assert.True(t, got[1].OK())
	assert.Len(t, broken.docs, 1)
	assert.Len(t, file.docs, 1)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DocumentsEmitted.WithLabelValues("kafka", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DocumentsEmitted.WithLabelValues("file", "success")), 0)
}

func TestDispatcher_NoSinks(t *testing.T) {
	d := NewDispatcher(observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Empty(t, d.Emit(context.Background(), compose.Document{Filename: "x.md"}))
}
