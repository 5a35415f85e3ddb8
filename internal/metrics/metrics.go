package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feelreel_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feelreel_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// 数据库
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feelreel_db_query_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feelreel_db_query_errors_total",
			Help: "Total number of failed database operations",
		},
		[]string{"operation"},
	)

	// 评价
	RatingsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feelreel_ratings_submitted_total",
			Help: "Total number of ratings submitted",
		},
		[]string{"kind", "result"}, // kind: new_movie|review, result: ok|failed
	)

	// 缓存
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feelreel_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feelreel_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// TMDB
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feelreel_tmdb_requests_total",
			Help: "Total number of TMDB requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	TMDBCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feelreel_tmdb_circuit_state",
			Help: "TMDB circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// 目录统计
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feelreel_catalog_movies",
			Help: "Number of movies in the catalog",
		},
	)

	CatalogReviews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feelreel_catalog_reviews",
			Help: "Number of reviews recorded",
		},
	)
)

// ObserveDB 记录一次数据库操作
func ObserveDB(operation string, seconds float64, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordRating 记录一次评价提交
func RecordRating(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	RatingsSubmitted.WithLabelValues(kind, result).Inc()
}

// RecordCache 记录缓存命中情况
func RecordCache(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}
