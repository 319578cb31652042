package metrics

import "github.com/prometheus/client_golang/prometheus"

// Relevance outcome label values for SearchRelevanceTotal.
const (
	OutcomeAccepted          = "accepted"
	OutcomeEarlyReject       = "early_reject"
	OutcomeLowVarianceReject = "low_variance_reject"
	OutcomeEmptyPool         = "empty_pool"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archivesearch",
			Name:      "search_requests_total",
			Help:      "Total number of searches by retrieval mode",
		},
		[]string{"mode", "status"},
	)

	SearchRelevanceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archivesearch",
			Name:      "search_relevance_total",
			Help:      "Relevance classifier outcomes for semantic candidate pools",
		},
		[]string{"outcome"},
	)

	RerankFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "archivesearch",
			Name:      "rerank_fallbacks_total",
			Help:      "Re-ranking passes that fell back to the prior order",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRelevanceTotal)
	prometheus.MustRegister(RerankFallbacksTotal)
	searchMetricsRegistered = true
}
