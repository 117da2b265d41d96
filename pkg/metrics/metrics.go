package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendor_rankings_total",
			Help: "Total number of ranking runs",
		},
		[]string{"source"},
	)

	VendorsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendors_scored_total",
			Help: "Total number of vendors scored",
		},
		[]string{"source"},
	)

	ParseFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_fallbacks_total",
			Help: "Number of times a missing or unparseable field fell back to its default",
		},
		[]string{"field"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vendor_ranking_duration_seconds",
			Help:    "Duration of a ranking run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"source"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_cache_requests_total",
			Help: "Ranking cache lookups by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency in seconds",
		},
		[]string{"method", "route"},
	)
)

// Ranking sources
const (
	SourceJSON = "json"
	SourceCSV  = "csv"
	SourceCLI  = "cli"
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// RecordFallback counts one scoring fallback. It is used as the scorer's fallback hook.
func RecordFallback(field string) {
	ParseFallbacks.WithLabelValues(field).Inc()
}
