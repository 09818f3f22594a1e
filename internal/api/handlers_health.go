// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/middleware"
)

// healthProbeTimeout bounds the database ping and host probes.
const healthProbeTimeout = 2 * time.Second

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status        string                     `json:"status"`
	Version       string                     `json:"version"`
	UptimeSeconds float64                    `json:"uptime_seconds"`
	Database      DatabaseHealth             `json:"database"`
	Catalog       catalog.Stats              `json:"catalog"`
	Posters       PosterHealth               `json:"posters"`
	Host          *HostHealth                `json:"host,omitempty"`
	Goroutines    int                        `json:"goroutines"`
	Endpoints     []middleware.EndpointStats `json:"endpoints"`
}

// DatabaseHealth reports user-store reachability.
type DatabaseHealth struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// PosterHealth reports poster lookup state.
type PosterHealth struct {
	Enabled      bool   `json:"enabled"`
	CacheBackend string `json:"cache_backend"`
	CacheEntries int    `json:"cache_entries"`
	// HitRate is only reported by the in-process store.
	HitRate *float64 `json:"cache_hit_rate,omitempty"`
}

// HostHealth is a snapshot of host resources.
type HostHealth struct {
	MemoryTotalBytes  uint64  `json:"memory_total_bytes"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	Load1             float64 `json:"load1"`
	Load5             float64 `json:"load5"`
	Load15            float64 `json:"load15"`
}

// Health handles health check requests
//
// @Summary Service health
// @Description Database reachability, catalogue statistics, poster cache size, host memory and per-route latency.
// @Tags Core
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	status := HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Catalog:       h.catalog.Stats(),
		Posters:       h.posterHealth(ctx),
		Host:          hostHealth(ctx),
		Goroutines:    runtime.NumGoroutine(),
		Endpoints:     h.perfMon.GetStats(),
	}

	if err := h.db.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.Database = DatabaseHealth{Error: "ping failed"}
		logging.Ctx(ctx).Warn().Err(err).Msg("Health check: database ping failed")
	} else {
		status.Database = DatabaseHealth{Connected: true}
	}

	respondJSON(w, http.StatusOK, &status)
}

// HealthLive handles liveness probe requests
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady handles readiness probe requests. The catalogue is loaded
// before the router exists, so readiness only depends on the database.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database unavailable", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) posterHealth(ctx context.Context) PosterHealth {
	store := h.posters.Store()
	ph := PosterHealth{Enabled: h.posters.Enabled(), CacheBackend: store.Backend()}
	n, err := store.Len(ctx)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Health check: poster cache size unavailable")
		return ph
	}
	ph.CacheEntries = n
	if counted, ok := store.(interface{ Stats() cache.Stats }); ok {
		rate := counted.Stats().HitRate()
		ph.HitRate = &rate
	}
	return ph
}

// hostHealth returns nil when the platform does not expose the figures.
func hostHealth(ctx context.Context) *HostHealth {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		logging.Debug().Err(err).Msg("Health check: host memory unavailable")
		return nil
	}
	hh := &HostHealth{
		MemoryTotalBytes:  vm.Total,
		MemoryUsedPercent: vm.UsedPercent,
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		hh.Load1, hh.Load5, hh.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	return hh
}
