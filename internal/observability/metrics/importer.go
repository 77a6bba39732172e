package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ImporterMetrics contains Prometheus metrics for the result import pipeline
type ImporterMetrics struct {
	registry *prometheus.Registry

	importBatchesTotal  *prometheus.CounterVec
	importRowsTotal     *prometheus.CounterVec
	importBatchDuration prometheus.Histogram
	boothsCreatedTotal  prometheus.Counter

	collectors []prometheus.Collector
}

// NewImporterMetrics creates and registers new import pipeline metrics
func NewImporterMetrics(registry *prometheus.Registry) (*ImporterMetrics, error) {
	m := &ImporterMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ImporterMetrics) initMetrics() {
	m.importBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "importer_batches_total",
			Help: "Total number of import batches by outcome",
		},
		[]string{"status"}, // status: committed, rolled_back, rejected
	)

	m.importRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "importer_rows_total",
			Help: "Total number of rows processed by disposition",
		},
		[]string{"disposition"}, // disposition: imported, skipped
	)

	m.importBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "importer_batch_duration_seconds",
			Help:    "Time taken to process one import batch end to end",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	m.boothsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "importer_booths_created_total",
			Help: "Total number of booths created lazily during imports",
		},
	)

	m.collectors = []prometheus.Collector{
		m.importBatchesTotal,
		m.importRowsTotal,
		m.importBatchDuration,
		m.boothsCreatedTotal,
	}
}

// Describe implements the Collector interface
func (m *ImporterMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ImporterMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordBatch records the outcome of one import batch
func (m *ImporterMetrics) RecordBatch(status string, duration float64) {
	m.importBatchesTotal.WithLabelValues(status).Inc()
	m.importBatchDuration.Observe(duration)
}

// RecordRows records row dispositions for a committed batch
func (m *ImporterMetrics) RecordRows(imported, skipped int) {
	m.importRowsTotal.WithLabelValues("imported").Add(float64(imported))
	m.importRowsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordBoothCreated records a booth created during an import
func (m *ImporterMetrics) RecordBoothCreated() {
	m.boothsCreatedTotal.Inc()
}
