// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/logging"
)

// DefaultGCDiscardRatio is the Badger value-log discard ratio used per pass.
const DefaultGCDiscardRatio = 0.5

// valueLogCollector is implemented by stores with a value log to compact.
type valueLogCollector interface {
	RunGC(discardRatio float64) error
}

// CacheMaintenanceService periodically publishes the poster cache size and,
// for stores that support it, runs value-log garbage collection.
//
// A failed size read or GC pass is logged and retried on the next tick; the
// service only returns when ctx is canceled.
type CacheMaintenanceService struct {
	store        cache.Store
	interval     time.Duration
	discardRatio float64
	name         string
	log          zerolog.Logger
}

// NewCacheMaintenanceService creates the service. A non-positive interval
// becomes 10 minutes.
func NewCacheMaintenanceService(store cache.Store, interval time.Duration) *CacheMaintenanceService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CacheMaintenanceService{
		store:        store,
		interval:     interval,
		discardRatio: DefaultGCDiscardRatio,
		name:         "poster-cache-maintenance",
		log:          logging.WithComponent("poster-cache"),
	}
}

// Serve implements suture.Service.
func (s *CacheMaintenanceService) Serve(ctx context.Context) error {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *CacheMaintenanceService) runOnce(ctx context.Context) {
	if err := cache.ReportSize(ctx, s.store); err != nil {
		s.log.Warn().Err(err).Str("backend", s.store.Backend()).Msg("Failed to read poster cache size")
	}

	gc, ok := s.store.(valueLogCollector)
	if !ok {
		return
	}
	start := time.Now()
	if err := gc.RunGC(s.discardRatio); err != nil {
		s.log.Warn().Err(err).Str("backend", s.store.Backend()).Msg("Poster cache GC failed")
		return
	}
	s.log.Debug().Dur("duration", time.Since(start)).Msg("Poster cache GC pass complete")
}

// String implements fmt.Stringer for suture event logs.
func (s *CacheMaintenanceService) String() string {
	return s.name
}
