// Package observability provides metrics and monitoring capabilities for the application.
package observability

import (
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/senthilk/partybase/internal/errors"
	"github.com/senthilk/partybase/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	HTTP     *metrics.HTTPMetrics
	Importer *metrics.ImporterMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, errors.Newf("failed to create HTTP metrics: %w", err).
			Component("observability").
			Build()
	}

	importerMetrics, err := metrics.NewImporterMetrics(registry)
	if err != nil {
		return nil, errors.Newf("failed to create importer metrics: %w", err).
			Component("observability").
			Build()
	}

	return &Metrics{
		registry: registry,
		HTTP:     httpMetrics,
		Importer: importerMetrics,
	}, nil
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
