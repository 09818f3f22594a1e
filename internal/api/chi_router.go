// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
	frontend      *frontend
}

// NewRouter creates a router. jwtManager validates bearer tokens on the
// protected movie routes.
func NewRouter(cfg *config.Config, handler *Handler, jwtManager *auth.JWTManager) *Router {
	return &Router{
		handler:       handler,
		auth:          auth.NewMiddleware(jwtManager, writeAuthError),
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		frontend:      newFrontend(cfg.Web.FrontendDir),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method Not Allowed", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APISecurityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.handler.PerformanceMonitor().Middleware)
		r.Use(middleware.Compression)

		// ========================
		// Health Endpoints
		// ========================
		r.Get("/health", router.handler.Health)
		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)

		// ========================
		// Authentication Endpoints
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAuth())
			r.Post("/register", router.handler.Register)
			r.Post("/login", router.handler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			// Image tags cannot send bearer tokens.
			r.Get("/img-proxy", router.handler.ImageProxy)

			// ========================
			// Protected Endpoints
			// ========================
			r.Group(func(r chi.Router) {
				r.Use(router.auth.RequireAuth)

				r.Get("/tmdb-key", router.handler.TMDBKey)
				r.Route("/movies", func(r chi.Router) {
					r.Get("/trending", router.handler.Trending)
					r.Get("/search", router.handler.Search)
					r.Get("/recommend/*", router.handler.Recommend)
					r.Get("/poster", router.handler.Poster)
					r.Get("/titles", router.handler.Titles)
				})
			})
		})
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// ========================
	// Frontend
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(middleware.FrontendSecurityHeaders)
		r.Get("/", router.frontend.page("index.html"))
		r.Get("/dashboard", router.frontend.page("dashboard.html"))
		r.Handle("/static/*", router.frontend.assets)
	})

	return r
}
