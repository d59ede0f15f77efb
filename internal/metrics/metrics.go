// Package metrics exports batch activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/nvandessel/clockwalk/internal/walk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records trial outcomes. It satisfies aggregate.Observer and is
// safe for concurrent use, as Prometheus metrics are.
type Collector struct {
	registry *prometheus.Registry

	trials      prometheus.Counter
	lastVisited *prometheus.CounterVec
	coverSteps  prometheus.Histogram
	progress    prometheus.Gauge
	batches     *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		registry: reg,

		// trials counts completed covering walks
		trials: f.NewCounter(prometheus.CounterOpts{
			Name: "clockwalk_trials_total",
			Help: "Total completed covering-walk trials",
		}),

		// lastVisited counts trials by the node visited last
		lastVisited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clockwalk_last_visited_total",
			Help: "Trials by last-visited node",
		}, []string{"node"}),

		// coverSteps tracks the cover time of each trial
		coverSteps: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "clockwalk_cover_steps",
			Help:    "Steps needed to visit every node",
			Buckets: prometheus.ExponentialBuckets(4, 2, 12), // 4 to ~8k steps
		}),

		progress: f.NewGauge(prometheus.GaugeOpts{
			Name: "clockwalk_batch_progress_ratio",
			Help: "Fraction of the current batch completed",
		}),

		batches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clockwalk_batches_total",
			Help: "Batches run by result",
		}, []string{"result"}),
	}
}

// OnTrial records one trial.
func (c *Collector) OnTrial(r walk.TrialResult) {
	c.trials.Inc()
	c.lastVisited.WithLabelValues(strconv.Itoa(r.LastVisited)).Inc()
	c.coverSteps.Observe(float64(r.Steps))
}

// OnProgress updates the progress gauge.
func (c *Collector) OnProgress(done, total int) {
	if total > 0 {
		c.progress.Set(float64(done) / float64(total))
	}
}

// BatchFinished counts a batch by outcome: "ok" when err is nil, "error"
// otherwise.
func (c *Collector) BatchFinished(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.batches.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry for gathering.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
