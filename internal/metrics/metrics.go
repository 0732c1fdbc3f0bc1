// Package metrics records Prometheus counters for outbound API traffic and
// store operation outcomes.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the console's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so instrumentation points never need guards.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	storeOps *prometheus.CounterVec
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Outbound API requests by method and response status.",
		}, []string{"method", "status"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by store, operation, and outcome.",
		}, []string{"store", "operation", "outcome"}),
	}
	m.registry.MustRegister(m.requests, m.storeOps)
	return m
}

// RecordRequest counts one completed outbound request. A status of 0 means
// the request never produced a response (transport failure).
func (m *Metrics) RecordRequest(method string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, label).Inc()
}

// RecordStoreOp counts one store operation outcome.
func (m *Metrics) RecordStoreOp(store, operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeOps.WithLabelValues(store, operation, outcome).Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
