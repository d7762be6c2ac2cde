package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reelfind",
			Name:      "search_queries_total",
			Help:      "Total number of search queries by outcome",
		},
		[]string{"outcome"}, // "results" / "no_results" / "error"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reelfind",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search pipeline duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchResultsSelected = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reelfind",
			Name:      "search_results_selected",
			Help:      "Number of rows selected per query",
			Buckets:   []float64{0, 1, 2, 5, 10},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultsSelected)
	searchMetricsRegistered = true
}
