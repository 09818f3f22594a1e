// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points every file lookup at an empty temp dir so a developer's
// config.yaml or .env cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Setenv(DotEnvPathEnvVar, filepath.Join(dir, "missing.env"))
	old := DefaultConfigPaths
	DefaultConfigPaths = nil
	t.Cleanup(func() { DefaultConfigPaths = old })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.API.DefaultPerPage != 20 || cfg.API.MaxPerPage != 50 {
		t.Errorf("per_page defaults = %d/%d, want 20/50", cfg.API.DefaultPerPage, cfg.API.MaxPerPage)
	}
	if cfg.API.DefaultRecommend != 12 || cfg.API.MaxRecommend != 30 {
		t.Errorf("recommend defaults = %d/%d, want 12/30", cfg.API.DefaultRecommend, cfg.API.MaxRecommend)
	}
	if cfg.API.TitlesLimit != 50000 {
		t.Errorf("TitlesLimit = %d, want 50000", cfg.API.TitlesLimit)
	}
	if cfg.Security.SessionTimeout != 24*time.Hour {
		t.Errorf("SessionTimeout = %v, want 24h", cfg.Security.SessionTimeout)
	}
	if cfg.PosterCache.Backend != PosterBackendMemory {
		t.Errorf("PosterCache.Backend = %q, want memory", cfg.PosterCache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TMDB_API_KEY", "abc123")
	t.Setenv("TMDB_TIMEOUT", "6s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DATA_DIR", "/srv/model")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Errorf("TMDB.APIKey = %q, want abc123", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.Timeout != 6*time.Second {
		t.Errorf("TMDB.Timeout = %v, want 6s", cfg.TMDB.Timeout)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if got := cfg.Catalog.MoviesPath(); got != filepath.Join("/srv/model", "movies.csv") {
		t.Errorf("MoviesPath() = %q", got)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: 7000\ntmdb:\n  rate_limit: 3\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.TMDB.RateLimit != 3 {
		t.Errorf("TMDB.RateLimit = %v, want 3 from file", cfg.TMDB.RateLimit)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, env should win over file", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_DotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("JWT_SECRET=from-dotenv-file-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(DotEnvPathEnvVar, envFile)
	// godotenv does not override variables that are already present, so make
	// sure the test process starts without one and clean up afterwards.
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Security.JWTSecret != "from-dotenv-file-secret" {
		t.Errorf("JWTSecret = %q, want value from .env", cfg.Security.JWTSecret)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"tmdb timeout too short", func(c *Config) { c.TMDB.Timeout = time.Second }, "TMDB_TIMEOUT"},
		{"tmdb timeout too long", func(c *Config) { c.TMDB.Timeout = time.Minute }, "TMDB_TIMEOUT"},
		{"unknown backend", func(c *Config) { c.PosterCache.Backend = "memcached" }, "POSTER_CACHE_BACKEND"},
		{"redis without addr", func(c *Config) {
			c.PosterCache.Backend = PosterBackendRedis
			c.PosterCache.RedisAddr = ""
		}, "REDIS_ADDR"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, "JWT_SECRET"},
		{"per page above max", func(c *Config) { c.API.DefaultPerPage = 99 }, "default_per_page"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"missing db path", func(c *Config) { c.Database.Path = " " }, "USERS_DB_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	if got := s.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q", got)
	}
}
