// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

Catalog Metrics:
  - catalog_movies, catalog_vocabulary_terms: size of the loaded index (gauges)
  - catalog_load_duration_seconds: startup load time (gauge)
  - catalog_query_duration_seconds: recommend/trending/search latency (histogram)
  - catalog_queries_total: queries by operation and outcome (counter)

API Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total

Poster Metrics:
  - poster_lookups_total: lookups by result (cached, found, not_found, error, disabled)
  - poster_cache_entries, cache_hits_total, cache_misses_total: by backend
  - tmdb_request_duration_seconds: outbound latency by endpoint and result
  - image_proxy_requests_total: proxy outcomes
  - circuit_breaker_*: state of the TMDB circuit breakers

User Store Metrics:
  - sqlite_query_duration_seconds, sqlite_query_errors_total
  - auth_events_total, registered_users

# Usage

	start := time.Now()
	recs := idx.Recommend(title, n)
	metrics.RecordCatalogQuery("recommend", time.Since(start), len(recs))

# Thread Safety

All functions are safe for concurrent use.
*/
package metrics
