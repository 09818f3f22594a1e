// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// Stats tracks cache performance
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Keys   int   `json:"keys"`
}

// HitRate returns hits as a percentage of all lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Memory is a process-lifetime map guarded by a RWMutex. Entries never expire.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()

	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	metrics.RecordCacheAccess(m.Backend(), ok)
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.entries[key] = value
	m.mu.Unlock()
	return nil
}

// Len implements Store.
func (m *Memory) Len(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Stats returns a snapshot of hit and miss counters.
func (m *Memory) Stats() Stats {
	n, _ := m.Len(context.Background())
	return Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Keys:   n,
	}
}

// Backend implements Store.
func (m *Memory) Backend() string { return "memory" }

// Close implements Store.
func (m *Memory) Close() error { return nil }
