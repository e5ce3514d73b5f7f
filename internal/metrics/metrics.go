// Package metrics exposes Prometheus collectors for list queries and HTTP traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// List outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
	OutcomeInconsistent = "inconsistent"
)

// Metrics bundles the collectors registered on one registry.
type Metrics struct {
	ListQueries  *prometheus.CounterVec
	ListDuration *prometheus.HistogramVec
	ListTotal    *prometheus.GaugeVec
	HTTPRequests *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		ListQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Name:      "list_queries_total",
			Help:      "Paginated list queries by entity and outcome.",
		}, []string{"entity", "outcome"}),
		ListDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursehub",
			Name:      "list_query_duration_seconds",
			Help:      "Latency of paginated list queries (count and fetch).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity"}),
		ListTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "coursehub",
			Name:      "list_last_total",
			Help:      "Total reported by the most recent list query per entity.",
		}, []string{"entity"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}
	reg.MustRegister(m.ListQueries, m.ListDuration, m.ListTotal, m.HTTPRequests)
	return m
}

// ObserveList records one list query.
func (m *Metrics) ObserveList(entity, outcome string, total int, took time.Duration) {
	if m == nil {
		return
	}
	m.ListQueries.WithLabelValues(entity, outcome).Inc()
	m.ListDuration.WithLabelValues(entity).Observe(took.Seconds())
	if outcome == OutcomeOK || outcome == OutcomeInconsistent {
		m.ListTotal.WithLabelValues(entity).Set(float64(total))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
