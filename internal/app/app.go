// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package app holds the process-wide state of CineMatch.
//
// New runs the startup sequence in a fixed order. The HTTP router is only
// built from a fully initialized Context, so no request can observe
// half-loaded state.
//
//  1. Catalogue artifacts (fatal on failure)
//  2. Poster cache store
//  3. TMDB lookup and image proxy fetchers
//  4. SQLite user store
//  5. JWT manager and user service
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/middleware"
	"github.com/tomtom215/cinematch/internal/poster"
	"github.com/tomtom215/cinematch/internal/users"
)

// perfWindow is the number of recent requests kept for /api/health latency
// percentiles.
const perfWindow = 1000

// Context is the explicitly initialized application state.
type Context struct {
	Config    *config.Config
	Catalog   *catalog.Index
	Posters   *poster.Lookup
	Images    *poster.Proxy
	Cache     cache.Store
	DB        *database.DB
	JWT       *auth.JWTManager
	Users     *users.Service
	PerfMon   *middleware.PerformanceMonitor
	StartTime time.Time
}

// New initializes every component in dependency order. On error, anything
// already opened is closed before returning.
func New(ctx context.Context, cfg *config.Config) (_ *Context, err error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	c := &Context{Config: cfg, StartTime: time.Now()}
	defer func() {
		if err != nil {
			if closeErr := c.Close(); closeErr != nil {
				logging.Warn().Err(closeErr).Msg("Cleanup after failed startup")
			}
		}
	}()

	c.Catalog, err = catalog.Load(ctx, catalog.Paths{
		Movies:     cfg.Catalog.MoviesPath(),
		Indices:    cfg.Catalog.IndicesPath(),
		Vectorizer: cfg.Catalog.VectorizerPath(),
	})
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}

	c.Cache, err = cache.New(ctx, cfg.PosterCache)
	if err != nil {
		return nil, fmt.Errorf("open poster cache: %w", err)
	}

	tmdb := poster.NewHTTPFetcher(poster.FetcherConfig{
		Name:         "tmdb",
		Timeout:      cfg.TMDB.Timeout,
		RateLimit:    cfg.TMDB.RateLimit,
		RateBurst:    cfg.TMDB.RateBurst,
		MaxBodyBytes: 1 << 20,
	})
	c.Posters = poster.NewLookup(poster.LookupConfig{
		APIKey:       cfg.TMDB.APIKey,
		SearchURL:    cfg.TMDB.SearchURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Enrich:       cfg.TMDB.EnrichListings,
	}, tmdb, c.Cache)
	if !c.Posters.Enabled() {
		logging.Warn().Msg("TMDB_API_KEY not set, poster lookups disabled")
	}

	images := poster.NewHTTPFetcher(poster.FetcherConfig{
		Name:    "image",
		Timeout: cfg.TMDB.ProxyTimeout,
	})
	c.Images = poster.NewProxy(images, cfg.TMDB.ImageHost)

	c.DB, err = database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}

	c.JWT, err = auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("jwt manager: %w", err)
	}

	c.Users, err = users.NewService(c.DB, c.JWT)
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}
	if err := c.Users.SyncUserCount(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to read registered user count")
	}

	c.PerfMon = middleware.NewPerformanceMonitor(perfWindow, middleware.DefaultSlowRequestThreshold)

	logging.Info().
		Int("movies", c.Catalog.Len()).
		Str("poster_cache", c.Cache.Backend()).
		Bool("posters_enabled", c.Posters.Enabled()).
		Str("db_path", cfg.Database.Path).
		Msg("Application initialized")
	return c, nil
}

// Handler builds the HTTP router over the initialized state.
func (c *Context) Handler(version string) http.Handler {
	handler := api.NewHandler(api.HandlerDeps{
		Config:    c.Config,
		Catalog:   c.Catalog,
		Accounts:  c.Users,
		Posters:   c.Posters,
		Images:    c.Images,
		DB:        c.DB,
		PerfMon:   c.PerfMon,
		StartTime: c.StartTime,
		Version:   version,
	})
	return api.NewRouter(c.Config, handler, c.JWT).SetupChi()
}

// Close releases the user store and the poster cache.
func (c *Context) Close() error {
	var errs []error
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close user store: %w", err))
		}
		c.DB = nil
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close poster cache: %w", err))
		}
		c.Cache = nil
	}
	return errors.Join(errs...)
}
