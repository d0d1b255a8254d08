package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/airquality-cli/internal/resilience"
	"github.com/sells-group/airquality-cli/internal/store"
)

// Snapshot holds a point-in-time view of saved data and provider health.
type Snapshot struct {
	Places      int                                `json:"places"`
	Records     int                                `json:"records"`
	Breakers    map[string]resilience.CircuitState `json:"breakers"`
	CollectedAt time.Time                          `json:"collected_at"`
}

// Collector gathers a Snapshot from the store and the provider breakers.
// AsPrometheus exposes the same data as gauges, querying the store on scrape.
type Collector struct {
	store    store.Store
	breakers *resilience.Breakers
	timeout  time.Duration

	placesDesc  *prometheus.Desc
	recordsDesc *prometheus.Desc
	breakerDesc *prometheus.Desc
}

// NewCollector creates a new collector. breakers may be nil.
func NewCollector(st store.Store, breakers *resilience.Breakers) *Collector {
	return &Collector{
		store:    st,
		breakers: breakers,
		timeout:  5 * time.Second,
		placesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "saved_places"),
			"Distinct places with at least one saved record.", nil, nil),
		recordsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "saved_records"),
			"Saved records across all places.", nil, nil),
		breakerDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "circuit_state"),
			"Provider circuit breaker state (0 closed, 1 open, 2 half-open).",
			[]string{"endpoint"}, nil),
	}
}

// Collect gathers a snapshot.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Breakers:    map[string]resilience.CircuitState{},
		CollectedAt: time.Now().UTC(),
	}

	sums, err := c.store.ListSummaries(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list summaries")
	}
	snap.Places = len(sums)
	for _, s := range sums {
		snap.Records += s.Records
	}

	if c.breakers != nil {
		snap.Breakers = c.breakers.States()
	}
	return snap, nil
}

func (c *Collector) describe(ch chan<- *prometheus.Desc) {
	ch <- c.placesDesc
	ch <- c.recordsDesc
	ch <- c.breakerDesc
}

func (c *Collector) collectMetrics(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	snap, err := c.Collect(ctx)
	if err != nil {
		zap.L().Warn("monitoring: collect snapshot failed", zap.Error(err))
		ch <- prometheus.NewInvalidMetric(c.placesDesc, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.placesDesc, prometheus.GaugeValue, float64(snap.Places))
	ch <- prometheus.MustNewConstMetric(c.recordsDesc, prometheus.GaugeValue, float64(snap.Records))
	for endpoint, state := range snap.Breakers {
		ch <- prometheus.MustNewConstMetric(c.breakerDesc, prometheus.GaugeValue, float64(state), endpoint)
	}
}

// AsPrometheus adapts the collector to prometheus.Collector. Collect is
// already taken by the snapshot method.
func (c *Collector) AsPrometheus() prometheus.Collector {
	return promCollector{c}
}

type promCollector struct{ c *Collector }

func (p promCollector) Describe(ch chan<- *prometheus.Desc) { p.c.describe(ch) }
func (p promCollector) Collect(ch chan<- prometheus.Metric) { p.c.collectMetrics(ch) }
