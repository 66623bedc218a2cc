package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instruments the customer pipeline reports into.
type Metrics struct {
	registry *prometheus.Registry

	CacheHits               prometheus.Counter
	CacheMisses             prometheus.Counter
	StorefrontQueryFailures prometheus.Counter
	PipelineDuration        prometheus.Histogram
	WebhooksRejected        prometheus.Counter
}

// NewMetrics creates and registers the pipeline metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: reg,
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staybase_customer_cache_hits_total",
			Help: "Customer list requests served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staybase_customer_cache_misses_total",
			Help: "Customer list requests that rebuilt the merged view.",
		}),
		StorefrontQueryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staybase_storefront_query_failures_total",
			Help: "Shopify customer queries that returned an error envelope.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "staybase_customer_pipeline_duration_seconds",
			Help:    "End-to-end duration of the fetch, score and merge pipeline.",
			Buckets: prometheus.DefBuckets,
		}),
		WebhooksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "staybase_webhooks_rejected_total",
			Help: "Inbound webhooks dropped for a bad HMAC signature.",
		}),
	}

	reg.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.StorefrontQueryFailures,
		m.PipelineDuration,
		m.WebhooksRejected,
	)

	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
