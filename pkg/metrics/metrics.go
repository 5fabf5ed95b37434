// Package metrics holds the prometheus collectors for outbound fetches and
// scan phases.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const namespace = "aivis"

// Collector bundles every metric the scanner emits. A nil *Collector is valid
// and records nothing.
type Collector struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	phaseDuration *prometheus.HistogramVec
	phaseFailures *prometheus.CounterVec
	scans         *prometheus.CounterVec
	searchQueries *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Outbound page fetches by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Outbound page fetch latency.",
			Buckets:   DefaultBuckets,
		}, []string{"outcome"}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of each scan phase.",
			Buckets:   DefaultBuckets,
		}, []string{"phase"}),
		phaseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_failures_total",
			Help:      "Scan phases replaced by a zero stub.",
		}, []string{"phase"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Completed scans by mode.",
		}, []string{"mode"}),
		searchQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Live search API queries by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(c.fetches, c.fetchDuration, c.phaseDuration, c.phaseFailures, c.scans, c.searchQueries)

	return c
}

// ObserveFetch records one outbound fetch.
func (c *Collector) ObserveFetch(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.fetches.WithLabelValues(outcome).Inc()
	c.fetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObservePhase records one scan phase; failed marks it as stubbed.
func (c *Collector) ObservePhase(phase string, d time.Duration, failed bool) {
	if c == nil {
		return
	}
	c.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	if failed {
		c.phaseFailures.WithLabelValues(phase).Inc()
	}
}

// IncScan counts a completed scan.
func (c *Collector) IncScan(mode string) {
	if c == nil {
		return
	}
	c.scans.WithLabelValues(mode).Inc()
}

// IncSearchQuery counts a live search query.
func (c *Collector) IncSearchQuery(outcome string) {
	if c == nil {
		return
	}
	c.searchQueries.WithLabelValues(outcome).Inc()
}
