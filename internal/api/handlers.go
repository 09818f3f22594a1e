// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/middleware"
	"github.com/tomtom215/cinematch/internal/poster"
	"github.com/tomtom215/cinematch/internal/users"
)

// Catalog is the read-only similarity index.
type Catalog interface {
	Recommend(title string, n int) []catalog.Movie
	Trending(page, perPage int) []catalog.Movie
	Search(query string, limit int) []catalog.Movie
	AllTitles(limit int) []string
	Stats() catalog.Stats
}

// Accounts registers users and issues tokens.
type Accounts interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, username, password string) (*users.LoginResult, error)
}

// Posters resolves poster URLs through the memoizing cache.
type Posters interface {
	PosterURL(ctx context.Context, title string) string
	Enrich(ctx context.Context, movies []catalog.Movie) []catalog.Movie
	Enabled() bool
	APIKey() string
	Store() cache.Store
}

// ImageFetcher relays images from the allowed host.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*poster.Response, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerDeps groups the collaborators of Handler.
type HandlerDeps struct {
	Config    *config.Config
	Catalog   Catalog
	Accounts  Accounts
	Posters   Posters
	Images    ImageFetcher
	DB        Pinger
	PerfMon   *middleware.PerformanceMonitor
	StartTime time.Time
	Version   string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_auth.go: register and login
//   - handlers_movies.go: catalogue listings, posters and the TMDB key
//   - handlers_proxy.go: poster image relay
//   - handlers_health.go: health, liveness and readiness
//   - static.go: frontend pages and assets
type Handler struct {
	cfg       *config.Config
	catalog   Catalog
	accounts  Accounts
	posters   Posters
	images    ImageFetcher
	db        Pinger
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
	version   string
}

// NewHandler creates a new API handler.
func NewHandler(deps HandlerDeps) *Handler {
	perfMon := deps.PerfMon
	if perfMon == nil {
		perfMon = middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold)
	}
	startTime := deps.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		cfg:       deps.Config,
		catalog:   deps.Catalog,
		accounts:  deps.Accounts,
		posters:   deps.Posters,
		images:    deps.Images,
		db:        deps.DB,
		perfMon:   perfMon,
		startTime: startTime,
		version:   version,
	}
}

// PerformanceMonitor returns the monitor fed by the router.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}
