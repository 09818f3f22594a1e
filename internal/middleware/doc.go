// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides HTTP middleware shared by every route.

All components use the chi signature func(http.Handler) http.Handler and are
assembled by the router in internal/api:

  - RequestID: accepts a safe X-Request-ID or generates a UUID v4 and stores
    it in the logging context
  - PrometheusMetrics: request counter, latency histogram and in-flight gauge,
    labelled by chi route pattern
  - Compression: gzip for JSON responses only; proxied poster bytes and HTML
    pass through
  - PerformanceMonitor: ring buffer of recent samples with p50/p95/p99 per
    route, surfaced by the health endpoint
  - APISecurityHeaders and FrontendSecurityHeaders

Route patterns are only known after chi has matched the request, so the
metrics and performance middleware read the pattern after calling next.
*/
package middleware
