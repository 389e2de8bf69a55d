// Package metrics exposes scan and review counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doeshing/foodscan/internal/ports"
)

// Registry implements ports.Metrics on a private prometheus registry.
type Registry struct {
	registry     *prometheus.Registry
	scans        *prometheus.CounterVec
	lookups      prometheus.Histogram
	cacheResults *prometheus.CounterVec
	historySize  prometheus.Gauge
	reviews      *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodscan",
			Name:      "scans_total",
			Help:      "Barcode scans by outcome.",
		}, []string{"outcome"}),
		lookups: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "foodscan",
			Name:      "lookup_duration_seconds",
			Help:      "Latency of product lookups, including cache hits.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodscan",
			Name:      "lookup_cache_total",
			Help:      "Product cache hits and misses.",
		}, []string{"result"}),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "foodscan",
			Name:      "history_items",
			Help:      "Records currently held in the scan history.",
		}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodscan",
			Name:      "review_mutations_total",
			Help:      "Review creates, updates and deletes.",
		}, []string{"action"}),
	}
	r.registry.MustRegister(
		r.scans,
		r.lookups,
		r.cacheResults,
		r.historySize,
		r.reviews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ScanCompleted counts one scan under its outcome label.
func (r *Registry) ScanCompleted(outcome string) {
	r.scans.WithLabelValues(outcome).Inc()
}

// LookupObserved records how long a product lookup took.
func (r *Registry) LookupObserved(d time.Duration) {
	r.lookups.Observe(d.Seconds())
}

// CacheResult counts a product cache hit or miss.
func (r *Registry) CacheResult(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheResults.WithLabelValues(result).Inc()
}

// HistorySize sets the current number of history records.
func (r *Registry) HistorySize(n int) {
	r.historySize.Set(float64(n))
}

// ReviewMutated counts a review create, update or delete.
func (r *Registry) ReviewMutated(action string) {
	r.reviews.WithLabelValues(action).Inc()
}

// Gatherer exposes the underlying registry for inspection.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Noop discards everything. Commands other than serve run with it.
type Noop struct{}

func (Noop) ScanCompleted(string)         {}
func (Noop) LookupObserved(time.Duration) {}
func (Noop) CacheResult(bool)             {}
func (Noop) HistorySize(int)              {}
func (Noop) ReviewMutated(string)         {}

var (
	_ ports.Metrics = (*Registry)(nil)
	_ ports.Metrics = Noop{}
)
