// Package observability provides Prometheus metrics for the back office server.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	kpiCacheHits      prometheus.Counter
	kpiCacheMisses    prometheus.Counter
}

// NewMetrics creates a new Metrics instance with its own registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lavo_http_requests_total",
			Help: "Total number of HTTP requests by method, path and status code",
		}, []string{"method", "path", "code"}),
		kpiCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lavo_kpi_cache_hits_total",
			Help: "Number of dashboard KPI requests served from the response cache",
		}),
		kpiCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lavo_kpi_cache_misses_total",
			Help: "Number of dashboard KPI requests that required recomputation",
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.httpRequestsTotal, m.kpiCacheHits, m.kpiCacheMisses,
	} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// RecordHTTPRequest counts one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, code int) {
	m.httpRequestsTotal.WithLabelValues(method, path, fmt.Sprintf("%d", code)).Inc()
}

// RecordKPICacheHit counts a KPI response served from cache.
func (m *Metrics) RecordKPICacheHit() {
	m.kpiCacheHits.Inc()
}

// RecordKPICacheMiss counts a KPI response that had to be computed.
func (m *Metrics) RecordKPICacheMiss() {
	m.kpiCacheMisses.Inc()
}

// Handler returns an HTTP handler exposing the registry in Prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
