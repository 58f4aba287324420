// Package metrics provides Prometheus metrics collection for themekit.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load results used as the "result" label.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Collector holds all Prometheus metrics for themekit.
type Collector struct {
	// Load cycle metrics
	LoadsTotal   *prometheus.CounterVec
	LoadDuration prometheus.Histogram
	LastLoad     prometheus.Gauge

	// Parse metrics
	MalformedLines  prometheus.Counter
	OverlayFailures prometheus.Counter
	StoreEntries    *prometheus.GaugeVec

	// Resolution metrics
	UnresolvedItems     prometheus.Counter
	FallbackResolutions prometheus.Counter

	// Query API metrics
	RequestDuration *prometheus.HistogramVec
}

// New creates a new metrics collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		LoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "themekit",
				Name:      "loads_total",
				Help:      "Total number of resource load cycles by result",
			},
			[]string{"result"},
		),
		LoadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "themekit",
				Name:      "load_duration_seconds",
				Help:      "Load cycle duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		LastLoad: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "themekit",
				Name:      "last_load_timestamp",
				Help:      "Unix timestamp of last successful load cycle",
			},
		),
		MalformedLines: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "themekit",
				Name:      "malformed_lines_total",
				Help:      "Total number of skipped resource lines without a delimiter",
			},
		),
		OverlayFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "themekit",
				Name:      "overlay_failures_total",
				Help:      "Total number of overlay files that could not be read",
			},
		),
		StoreEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "themekit",
				Name:      "store_entries",
				Help:      "Entries in the active resource store",
			},
			[]string{"kind"},
		),
		UnresolvedItems: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "themekit",
				Name:      "unresolved_items_total",
				Help:      "Total number of theme items set to their default",
			},
		),
		FallbackResolutions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "themekit",
				Name:      "fallback_resolutions_total",
				Help:      "Total number of theme items resolved by a theme fallback",
			},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "themekit",
				Name:      "http_request_duration_seconds",
				Help:      "Query API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveLoad records the outcome of one load cycle.
func (c *Collector) ObserveLoad(ok bool, took time.Duration, at time.Time) {
	result := ResultOK
	if !ok {
		result = ResultFailed
	}
	c.LoadsTotal.WithLabelValues(result).Inc()
	c.LoadDuration.Observe(took.Seconds())
	if ok {
		c.LastLoad.Set(float64(at.Unix()))
	}
}

// SetStoreSize publishes the size of the active store.
func (c *Collector) SetStoreSize(exact, wildcards int) {
	c.StoreEntries.WithLabelValues("exact").Set(float64(exact))
	c.StoreEntries.WithLabelValues("wildcard").Set(float64(wildcards))
}
