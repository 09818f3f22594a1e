// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the .env file location.
const DotEnvPathEnvVar = "DOTENV_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPerPage:   20,
			MaxPerPage:       50,
			DefaultRecommend: 12,
			MaxRecommend:     30,
			SearchLimit:      20,
			TitlesLimit:      50000,
		},
		Catalog: CatalogConfig{
			Dir:        ".",
			Movies:     "movies.csv",
			Indices:    "indices.json",
			Vectorizer: "vectorizer.json",
		},
		Database: DatabaseConfig{
			Path:         "users.db",
			BusyTimeout:  5 * time.Second,
			MaxOpenConns: 4,
		},
		TMDB: TMDBConfig{
			SearchURL:    "https://api.themoviedb.org/3/search/movie",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			ImageHost:    "image.tmdb.org",
			Timeout:      8 * time.Second,
			ProxyTimeout: 10 * time.Second,
			RateLimit:    20,
			RateBurst:    5,
		},
		PosterCache: PosterCacheConfig{
			Backend:     "memory",
			Path:        "data/posters",
			GCInterval:  10 * time.Minute,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "cinematch:poster:",
		},
		Security: SecurityConfig{
			SessionTimeout:    24 * time.Hour,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			AuthRateLimitReqs: 20,
		},
		Web: WebConfig{
			FrontendDir: "frontend",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with precedence ENV > file > defaults,
// then validates it.
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv populates the process environment from a .env file without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config keys.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"data_dir":           "catalog.dir",
	"catalog_movies":     "catalog.movies",
	"catalog_indices":    "catalog.indices",
	"catalog_vectorizer": "catalog.vectorizer",

	"users_db_path":         "database.path",
	"users_db_busy_timeout": "database.busy_timeout",

	"tmdb_api_key":       "tmdb.api_key",
	"tmdb_search_url":    "tmdb.search_url",
	"tmdb_image_base":    "tmdb.image_base_url",
	"tmdb_timeout":       "tmdb.timeout",
	"tmdb_proxy_timeout": "tmdb.proxy_timeout",
	"tmdb_rate_limit":    "tmdb.rate_limit",
	"tmdb_rate_burst":    "tmdb.rate_burst",
	"poster_enrich":      "tmdb.enrich_listings",

	"poster_cache_backend":     "poster_cache.backend",
	"poster_cache_path":        "poster_cache.path",
	"poster_cache_gc_interval": "poster_cache.gc_interval",
	"redis_addr":               "poster_cache.redis_addr",
	"redis_password":           "poster_cache.redis_password",
	"redis_db":                 "poster_cache.redis_db",

	"jwt_secret":               "security.jwt_secret",
	"session_timeout":          "security.session_timeout",
	"cors_origins":             "security.cors_origins",
	"rate_limit_requests":      "security.rate_limit_requests",
	"rate_limit_window":        "security.rate_limit_window",
	"disable_rate_limit":       "security.rate_limit_disabled",
	"auth_rate_limit_requests": "security.auth_rate_limit_requests",

	"frontend_dir": "web.frontend_dir",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config key. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
