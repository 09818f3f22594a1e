// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Poster cache backends.
const (
	PosterBackendMemory = "memory"
	PosterBackendBadger = "badger"
	PosterBackendRedis  = "redis"
)

// TMDB request timeouts must stay within this window so a slow provider can
// never stall a request indefinitely.
const (
	MinTMDBTimeout = 5 * time.Second
	MaxTMDBTimeout = 10 * time.Second
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validatePosterCache(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	a := c.API
	if a.DefaultPerPage < 1 || a.DefaultPerPage > a.MaxPerPage {
		return fmt.Errorf("api.default_per_page must be between 1 and api.max_per_page (%d), got %d", a.MaxPerPage, a.DefaultPerPage)
	}
	if a.DefaultRecommend < 1 || a.DefaultRecommend > a.MaxRecommend {
		return fmt.Errorf("api.default_recommend must be between 1 and api.max_recommend (%d), got %d", a.MaxRecommend, a.DefaultRecommend)
	}
	if a.SearchLimit < 1 {
		return fmt.Errorf("api.search_limit must be positive, got %d", a.SearchLimit)
	}
	if a.TitlesLimit < 1 {
		return fmt.Errorf("api.titles_limit must be positive, got %d", a.TitlesLimit)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Movies == "" {
		return fmt.Errorf("CATALOG_MOVIES is required")
	}
	if c.Catalog.Vectorizer == "" {
		return fmt.Errorf("CATALOG_VECTORIZER is required")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("USERS_DB_PATH is required")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	t := c.TMDB
	if t.Timeout < MinTMDBTimeout || t.Timeout > MaxTMDBTimeout {
		return fmt.Errorf("TMDB_TIMEOUT must be between %s and %s, got %s", MinTMDBTimeout, MaxTMDBTimeout, t.Timeout)
	}
	if t.ProxyTimeout < MinTMDBTimeout || t.ProxyTimeout > MaxTMDBTimeout {
		return fmt.Errorf("TMDB_PROXY_TIMEOUT must be between %s and %s, got %s", MinTMDBTimeout, MaxTMDBTimeout, t.ProxyTimeout)
	}
	if _, err := url.ParseRequestURI(t.SearchURL); err != nil {
		return fmt.Errorf("TMDB_SEARCH_URL is not a valid URL: %w", err)
	}
	if t.ImageHost == "" {
		return fmt.Errorf("tmdb.image_host is required")
	}
	if t.RateLimit <= 0 || t.RateBurst < 1 {
		return fmt.Errorf("TMDB_RATE_LIMIT and TMDB_RATE_BURST must be positive")
	}
	return nil
}

func (c *Config) validatePosterCache() error {
	switch c.PosterCache.Backend {
	case PosterBackendMemory:
	case PosterBackendBadger:
		if c.PosterCache.Path == "" {
			return fmt.Errorf("POSTER_CACHE_PATH is required when POSTER_CACHE_BACKEND=badger")
		}
	case PosterBackendRedis:
		if c.PosterCache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when POSTER_CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("POSTER_CACHE_BACKEND must be one of memory, badger, redis, got %q", c.PosterCache.Backend)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if s.JWTSecret != "" && len(s.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters when set")
	}
	if !s.RateLimitDisabled && (s.RateLimitReqs < 1 || s.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
