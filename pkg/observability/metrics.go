// Package observability wires Prometheus instrumentation for the
// editing engine: mutation and undo/redo counters, save outcomes and
// drop-resolution latency.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one engine instance. All recording
// methods are safe on a nil receiver, so instrumentation stays
// optional for library users.
type Metrics struct {
	registry *prometheus.Registry

	mutations *prometheus.CounterVec
	undos     prometheus.Counter
	redos     prometheus.Counter
	saves     *prometheus.CounterVec
	resolve   prometheus.Histogram
}

// New creates a metrics set backed by its own Prometheus registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lattice",
			Name:      "mutations_total",
			Help:      "Committed document mutations by operation.",
		}, []string{"op"}),
		undos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lattice",
			Name:      "undo_total",
			Help:      "Undo operations applied.",
		}),
		redos: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lattice",
			Name:      "redo_total",
			Help:      "Redo operations applied.",
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lattice",
			Name:      "saves_total",
			Help:      "Document save attempts by outcome.",
		}, []string{"outcome"}),
		resolve: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lattice",
			Name:      "drop_resolve_seconds",
			Help:      "Latency of drop-target resolution.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	reg.MustRegister(m.mutations, m.undos, m.redos, m.saves, m.resolve)
	return m
}

// CountMutation records one committed mutation of the given operation.
func (m *Metrics) CountMutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

// CountUndo records one applied undo.
func (m *Metrics) CountUndo() {
	if m == nil {
		return
	}
	m.undos.Inc()
}

// CountRedo records one applied redo.
func (m *Metrics) CountRedo() {
	if m == nil {
		return
	}
	m.redos.Inc()
}

// CountSave records one save attempt with its outcome ("success" or
// "failure").
func (m *Metrics) CountSave(outcome string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(outcome).Inc()
}

// ObserveResolve records the duration of one drop-target resolution.
func (m *Metrics) ObserveResolve(d time.Duration) {
	if m == nil {
		return
	}
	m.resolve.Observe(d.Seconds())
}

// Handler exposes the metrics registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
