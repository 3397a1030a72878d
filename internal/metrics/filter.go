package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/dirmaker/internal/domain/search/mode"
)

// Filter Prometheus metrics.
var (
	FilterPassesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_passes_total",
			Help:      "Total number of visibility recomputations",
		},
		[]string{"pass", "compose"},
	)

	FilterVisibleItems = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_visible_items",
			Help:      "Number of items left visible by a pass",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"pass"},
	)

	SearchDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_events_dropped_total",
			Help:      "Search events dropped by the debounce window",
		},
	)

	CatalogItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_items",
			Help:      "Number of items in the loaded catalog",
		},
	)

	ActiveViews = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "views_active",
			Help:      "Number of live filter views",
		},
	)
)

var filterMetricsRegistered bool

// RegisterFilterMetrics registers Prometheus filter metrics. Must be called once from main.
func RegisterFilterMetrics() {
	if filterMetricsRegistered {
		return
	}
	prometheus.MustRegister(FilterPassesTotal)
	prometheus.MustRegister(FilterVisibleItems)
	prometheus.MustRegister(SearchDroppedTotal)
	prometheus.MustRegister(CatalogItems)
	prometheus.MustRegister(ActiveViews)
	filterMetricsRegistered = true
}

// FilterRecorder feeds coordinator activity into the filter metrics.
type FilterRecorder struct{}

// ObservePass counts a recomputation and the size of its visible set.
func (FilterRecorder) ObservePass(pass mode.Pass, compose mode.Compose, visible int) {
	FilterPassesTotal.WithLabelValues(string(pass), string(compose)).Inc()
	FilterVisibleItems.WithLabelValues(string(pass)).Observe(float64(visible))
}

// SearchDropped counts a debounced search event.
func (FilterRecorder) SearchDropped() {
	SearchDroppedTotal.Inc()
}
