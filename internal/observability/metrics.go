// Package observability exposes Prometheus metrics for the catalog loader
// and the offline gateway.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's collectors on a private registry so tests
// can create isolated instances without duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	// CacheHits counts gateway cache hits per routing strategy.
	CacheHits *prometheus.CounterVec
	// CacheMisses counts gateway cache misses per routing strategy.
	CacheMisses *prometheus.CounterVec
	// Fallbacks counts gateway responses served from a fallback (placeholder
	// CSV or cached document) after a network failure.
	Fallbacks prometheus.Counter
	// LoaderAttempts counts catalog load attempts per result.
	LoaderAttempts *prometheus.CounterVec
	// CatalogSize is the record count of the currently served catalog.
	CatalogSize prometheus.Gauge
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_cache_hits_total",
			Help: "Gateway cache hits by routing strategy.",
		}, []string{"strategy"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_cache_misses_total",
			Help: "Gateway cache misses by routing strategy.",
		}, []string{"strategy"}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_fallback_responses_total",
			Help: "Responses served from a fallback after network failure.",
		}),
		LoaderAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_load_attempts_total",
			Help: "Catalog load attempts by result.",
		}, []string{"result"}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Record count of the catalog currently being served.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.CacheHits,
		m.CacheMisses,
		m.Fallbacks,
		m.LoaderAttempts,
		m.CatalogSize,
	)
	return m
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
