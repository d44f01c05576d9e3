// Package emit hands generated documents to the configured sinks.
package emit

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/observability"
)

// Sink receives a rendered document. Implementations must be safe for
// concurrent use.
type Sink interface {
	Name() string
	Emit(ctx context.Context, doc compose.Document) error
}

// Result reports the outcome of one sink.
type Result struct {
	Sink  string `json:"sink"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the sink accepted the document.
func (r Result) OK() bool { return r.Error == "" }

// Dispatcher fans a document out to every sink. A failing sink never stops
// the others.
type Dispatcher struct {
	sinks   []Sink
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher over sinks in the given order.
func NewDispatcher(metrics *observability.Metrics, logger *slog.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, metrics: metrics, logger: logger}
}

// Emit sends doc to each sink in order and returns one Result per sink.
func (d *Dispatcher) Emit(ctx context.Context, doc compose.Document) []Result {
	results := make([]Result, 0, len(d.sinks))
	for _, s := range d.sinks {
		res := Result{Sink: s.Name()}
		if err := s.Emit(ctx, doc); err != nil {
			d.logger.Warn("emit document failed", "sink", s.Name(), "filename", doc.Filename, "error", err)
			d.metrics.DocumentsEmitted.WithLabelValues(s.Name(), "error").Inc()
			res.Error = err.Error()
		} else {
			d.logger.Info("document emitted", "sink", s.Name(), "filename", doc.Filename, "kind", doc.Kind)
			d.metrics.DocumentsEmitted.WithLabelValues(s.Name(), "success").Inc()
		}
		results = append(results, res)
	}
	return results
}
