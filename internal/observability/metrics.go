// Package observability provides the Prometheus metrics and slog logger
// shared by the engine, the HTTP API and the CLI.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crop_engine"

// Run outcomes recorded in RunsTotal.
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidProfile = "invalid_profile"
	OutcomeEmptyCatalog   = "empty_catalog"
	OutcomeStoreError     = "store_error"
	OutcomeCanceled       = "canceled"
)

// Metrics holds the Prometheus collectors for recommendation runs.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec // labels: outcome
	CropsScored   prometheus.Counter
	RunDuration   prometheus.Histogram
	TopCSI        prometheus.Histogram
	PublishErrors prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Recommendation runs by outcome.",
		}, []string{"outcome"}),
		CropsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crops_scored_total",
			Help:      "Total farmer/crop pairs scored.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a recommendation run including persistence.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		TopCSI: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "top_csi",
			Help:      "CSI of the highest ranked crop per successful run.",
			Buckets:   []float64{20, 40, 50, 60, 70, 80, 90, 100},
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Recommendation batches persisted but not published.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.CropsScored,
		m.RunDuration,
		m.TopCSI,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere,
// so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
