package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_analysis"

// Metrics holds the Prometheus counters, histograms, and gauges for one run.
type Metrics struct {
	RowsLoaded       prometheus.Counter
	RowsCleaned      prometheus.Counter
	RowsDropped      prometheus.Counter
	ArtifactsWritten *prometheus.CounterVec   // labels: kind={chart,table,report,summary,sqlite}
	StageDuration    *prometheus.HistogramVec // labels: stage={load,clean,aggregate,<sink>}
	LastRunSuccess   prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the run metrics on a private registry. A batch run
// exports them once through WriteTextfile instead of serving them.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Rows read from the raw dataset.",
		}),
		RowsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_cleaned_total",
			Help:      "Rows kept after cleaning.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows dropped for missing temperature or humidity.",
		}),
		ArtifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Output files written, by kind.",
		}, []string{"kind"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 when the last run completed, 0 when it failed.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RowsLoaded,
		m.RowsCleaned,
		m.RowsDropped,
		m.ArtifactsWritten,
		m.StageDuration,
		m.LastRunSuccess,
	)

	return m
}

// Gatherer exposes the registry for tests and exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in the node_exporter textfile format.
// The write is atomic: a temporary file is renamed into place.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
