// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog Metrics
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Number of movies in the loaded catalogue",
		},
	)

	CatalogVocabulary = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_vocabulary_terms",
			Help: "Number of TF-IDF vocabulary terms",
		},
	)

	CatalogLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_load_duration_seconds",
			Help: "Time taken to load the catalogue and build the similarity index",
		},
	)

	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Duration of catalogue queries in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"operation"}, // recommend, trending, search, titles
	)

	CatalogQueryResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_queries_total",
			Help: "Total number of catalogue queries by outcome",
		},
		[]string{"operation", "outcome"}, // outcome: "hit", "empty"
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlite_query_duration_seconds",
			Help:    "Duration of user store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlite_query_errors_total",
			Help: "Total number of user store query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Poster Metrics
	PosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_lookups_total",
			Help: "Total number of poster lookups by result",
		},
		[]string{"result"}, // cached, found, not_found, error, unavailable, disabled
	)

	PosterCacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "poster_cache_entries",
			Help: "Current number of memoized poster lookups",
		},
		[]string{"backend"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of poster cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of poster cache misses",
		},
		[]string{"backend"},
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tmdb_request_duration_seconds",
			Help:    "Duration of outbound TMDB requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "result"}, // endpoint: search, image; result: success, error, timeout
	)

	ImageProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_proxy_requests_total",
			Help: "Total number of image proxy requests by outcome",
		},
		[]string{"outcome"}, // ok, rejected, timeout, upstream_error
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Auth Metrics
	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Total number of registration and login attempts by result",
		},
		[]string{"event", "result"}, // event: register, login, token
	)

	RegisteredUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registered_users",
			Help: "Number of registered user accounts",
		},
	)
)

// RecordCatalogLoad records the size of a freshly built similarity index.
func RecordCatalogLoad(movies, vocabulary int, duration time.Duration) {
	CatalogMovies.Set(float64(movies))
	CatalogVocabulary.Set(float64(vocabulary))
	CatalogLoadDuration.Set(duration.Seconds())
}

// RecordCatalogQuery records a catalogue query and whether it produced results.
func RecordCatalogQuery(operation string, duration time.Duration, results int) {
	CatalogQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	outcome := "hit"
	if results == 0 {
		outcome = "empty"
	}
	CatalogQueryResults.WithLabelValues(operation, outcome).Inc()
}

// RecordDBQuery records a user store query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPosterLookup counts a poster lookup outcome.
func RecordPosterLookup(result string) {
	PosterLookups.WithLabelValues(result).Inc()
}

// RecordCacheAccess counts a poster cache hit or miss for a backend.
func RecordCacheAccess(backend string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(backend).Inc()
		return
	}
	CacheMisses.WithLabelValues(backend).Inc()
}

// RecordTMDBRequest records the latency and outcome of an outbound request.
func RecordTMDBRequest(endpoint, result string, duration time.Duration) {
	TMDBRequestDuration.WithLabelValues(endpoint, result).Observe(duration.Seconds())
}

// RecordImageProxy counts an image proxy outcome.
func RecordImageProxy(outcome string) {
	ImageProxyRequests.WithLabelValues(outcome).Inc()
}

// RecordAuthEvent counts a registration, login or token check.
func RecordAuthEvent(event string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}
