package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartSyncMetrics records reconciliation outcomes for the cart engine.
type CartSyncMetrics struct {
	duration    *prometheus.HistogramVec
	syncs       *prometheus.CounterVec
	mergedLines prometheus.Histogram
	remoteFails prometheus.Counter
}

// NewCartSyncMetrics registers the reconciliation metrics on the provided registerer.
func NewCartSyncMetrics(reg prometheus.Registerer) *CartSyncMetrics {
	if reg == nil {
		return &CartSyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_sync_duration_seconds",
		Help:    "Duration of cart reconciliation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	syncs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_sync_total",
		Help: "Cart reconciliation runs by outcome.",
	}, []string{"outcome"})
	mergedLines := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_sync_merged_lines",
		Help:    "Number of lines in the merged cart after reconciliation.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})
	remoteFails := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_remote_write_failures_total",
		Help: "Remote cart writes that failed and were absorbed locally.",
	})
	reg.MustRegister(duration, syncs, mergedLines, remoteFails)
	return &CartSyncMetrics{
		duration:    duration,
		syncs:       syncs,
		mergedLines: mergedLines,
		remoteFails: remoteFails,
	}
}

// ObserveSync records a reconciliation run with its outcome label.
func (c *CartSyncMetrics) ObserveSync(outcome string, lines int, elapsed time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	c.syncs.WithLabelValues(outcome).Inc()
	c.mergedLines.Observe(float64(lines))
}

// IncRemoteWriteFailure counts a remote write that was logged and absorbed.
func (c *CartSyncMetrics) IncRemoteWriteFailure() {
	if c == nil || c.remoteFails == nil {
		return
	}
	c.remoteFails.Inc()
}
