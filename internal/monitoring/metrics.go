// Package monitoring exposes lookup and storage metrics to Prometheus.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "airquality"

// Metrics records lookup and save outcomes. It satisfies fetcher.Observer
// and store.SaveObserver.
type Metrics struct {
	registry *prometheus.Registry

	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	saves          *prometheus.CounterVec
}

// NewMetrics creates a Metrics with its own registry, including Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Completed place lookups by outcome.",
		}, []string{"outcome"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Wall time of place lookups, metadata and air quality combined.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Save attempts by outcome (saved, rejected, error).",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.lookups,
		m.lookupDuration,
		m.saves,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Register adds extra collectors, such as a Collector, to the registry.
func (m *Metrics) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveLookup records a completed lookup. kind is "success" or a fetcher
// error kind.
func (m *Metrics) ObserveLookup(kind string, elapsed time.Duration) {
	m.lookups.WithLabelValues(kind).Inc()
	m.lookupDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveSave records a save attempt.
func (m *Metrics) ObserveSave(outcome string) {
	m.saves.WithLabelValues(outcome).Inc()
}
