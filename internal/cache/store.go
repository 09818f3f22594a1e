// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Store memoizes string values by key. The empty string is a legitimate value
// and must be distinguishable from a miss, so Get reports presence separately.
//
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key without expiry.
	Set(ctx context.Context, key, value string) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)

	// Backend names the implementation for logs and metrics.
	Backend() string

	// Close releases underlying resources.
	Close() error
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.PosterCacheConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", config.PosterBackendMemory:
		return NewMemory(), nil
	case config.PosterBackendBadger:
		return OpenBadger(BadgerOptions{Path: cfg.Path})
	case config.PosterBackendRedis:
		return NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown poster cache backend %q", cfg.Backend)
	}
}

// ReportSize publishes the entry count of s to the poster_cache_entries gauge.
func ReportSize(ctx context.Context, s Store) error {
	n, err := s.Len(ctx)
	if err != nil {
		return err
	}
	metrics.PosterCacheEntries.WithLabelValues(s.Backend()).Set(float64(n))
	return nil
}
