// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package config loads CineMatch configuration.
//
// Sources are layered with Koanf v2, highest priority last:
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/cinematch/config.yaml)
//  3. Environment variables, including those read from a .env file
//
// Only environment variables listed in envMappings are honoured.
package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	API         APIConfig         `koanf:"api"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	Database    DatabaseConfig    `koanf:"database"`
	TMDB        TMDBConfig        `koanf:"tmdb"`
	PosterCache PosterCacheConfig `koanf:"poster_cache"`
	Security    SecurityConfig    `koanf:"security"`
	Web         WebConfig         `koanf:"web"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// APIConfig holds listing limits exposed by the movie endpoints.
type APIConfig struct {
	DefaultPerPage   int `koanf:"default_per_page"`
	MaxPerPage       int `koanf:"max_per_page"`
	DefaultRecommend int `koanf:"default_recommend"`
	MaxRecommend     int `koanf:"max_recommend"`
	SearchLimit      int `koanf:"search_limit"`
	TitlesLimit      int `koanf:"titles_limit"`
}

// CatalogConfig locates the precomputed catalogue artifacts.
type CatalogConfig struct {
	Dir        string `koanf:"dir"`
	Movies     string `koanf:"movies"`
	Indices    string `koanf:"indices"`
	Vectorizer string `koanf:"vectorizer"`
}

// MoviesPath returns the resolved row-table path.
func (c CatalogConfig) MoviesPath() string { return c.resolve(c.Movies) }

// IndicesPath returns the resolved title-index path.
func (c CatalogConfig) IndicesPath() string { return c.resolve(c.Indices) }

// VectorizerPath returns the resolved vectorizer path.
func (c CatalogConfig) VectorizerPath() string { return c.resolve(c.Vectorizer) }

func (c CatalogConfig) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// DatabaseConfig configures the SQLite user store.
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	BusyTimeout  time.Duration `koanf:"busy_timeout"`
	MaxOpenConns int           `koanf:"max_open_conns"`
}

// TMDBConfig configures the external movie-metadata provider.
type TMDBConfig struct {
	APIKey         string        `koanf:"api_key"`
	SearchURL      string        `koanf:"search_url"`
	ImageBaseURL   string        `koanf:"image_base_url"`
	ImageHost      string        `koanf:"image_host"`
	Timeout        time.Duration `koanf:"timeout"`
	ProxyTimeout   time.Duration `koanf:"proxy_timeout"`
	RateLimit      float64       `koanf:"rate_limit"`
	RateBurst      int           `koanf:"rate_burst"`
	EnrichListings bool          `koanf:"enrich_listings"`
}

// PosterCacheConfig selects and configures the poster cache backend.
type PosterCacheConfig struct {
	// Backend is one of "memory", "badger", "redis".
	Backend string `koanf:"backend"`

	// Path is the badger directory.
	Path       string        `koanf:"path"`
	GCInterval time.Duration `koanf:"gc_interval"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`
}

// SecurityConfig holds authentication and request-limiting settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	AuthRateLimitReqs int           `koanf:"auth_rate_limit_requests"`
}

// WebConfig points at the static frontend bundle.
type WebConfig struct {
	FrontendDir string `koanf:"frontend_dir"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
