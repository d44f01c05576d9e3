package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pws_advisor"

// Metrics holds the Prometheus counters, histograms, and gauges for the advisor service.
type Metrics struct {
	// ECHO fetch metrics.
	EchoFetches       *prometheus.CounterVec // labels: outcome={success,error}
	EchoFetchDuration prometheus.Histogram

	// Refresh loop metrics.
	RefreshRunning  prometheus.Gauge
	LastRefresh     prometheus.Gauge     // unix seconds of the last successful refresh
	SnapshotRecords *prometheus.GaugeVec // labels: kind={systems,violations}

	// Derivation and document metrics.
	Recommendations   prometheus.Counter
	DocumentsRendered *prometheus.CounterVec // labels: kind
	DocumentsEmitted  *prometheus.CounterVec // labels: sink={file,kafka}, outcome={success,error}

	// CAP score metrics.
	CAPLookups *prometheus.CounterVec // labels: outcome={found,missing,error}
	CAPCache   *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all advisor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EchoFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "echo_fetch_total",
			Help:      "ECHO systems and violations fetches by outcome.",
		}, []string{"outcome"}),
		EchoFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "echo_fetch_duration_seconds",
			Help:      "Duration of a combined systems and violations fetch.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}),
		RefreshRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresh_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful ECHO refresh.",
		}),
		SnapshotRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records held in the current snapshot by kind.",
		}, []string{"kind"}),
		Recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Total advisory recommendation lines derived.",
		}),
		DocumentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents rendered by kind.",
		}, []string{"kind"}),
		DocumentsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_emitted_total",
			Help:      "Documents handed to a sink by sink and outcome.",
		}, []string{"sink", "outcome"}),
		CAPLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cap_lookups_total",
			Help:      "DEQ CAP score lookups by outcome.",
		}, []string{"outcome"}),
		CAPCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cap_cache_total",
			Help:      "CAP score cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.EchoFetches,
		m.EchoFetchDuration,
		m.RefreshRunning,
		m.LastRefresh,
		m.SnapshotRecords,
		m.Recommendations,
		m.DocumentsRendered,
		m.DocumentsEmitted,
		m.CAPLookups,
		m.CAPCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EchoFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "echo_fetch_total"}, []string{"outcome"}),
		EchoFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "echo_fetch_duration_seconds"}),
		RefreshRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "refresh_running"}),
		LastRefresh:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "last_refresh_timestamp_seconds"}),
		SnapshotRecords:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "snapshot_records"}, []string{"kind"}),
		Recommendations:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "recommendations_total"}),
		DocumentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "documents_total"}, []string{"kind"}),
		DocumentsEmitted:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "documents_emitted_total"}, []string{"sink", "outcome"}),
		CAPLookups:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "cap_lookups_total"}, []string{"outcome"}),
		CAPCache:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "cap_cache_total"}, []string{"result"}),
	}
}
