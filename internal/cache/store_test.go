// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/tomtom215/cinematch/internal/config"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "avatar"); err != nil || ok {
		t.Fatalf("Get on empty store = (ok=%v, err=%v), want miss", ok, err)
	}

	if err := s.Set(ctx, "avatar", "https://image.tmdb.org/t/p/w500/avatar.jpg"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := s.Get(ctx, "avatar")
	if err != nil || !ok || v != "https://image.tmdb.org/t/p/w500/avatar.jpg" {
		t.Errorf("Get(avatar) = (%q, %v, %v)", v, ok, err)
	}

	// An empty value is a cached "not found", distinct from a miss.
	if err := s.Set(ctx, "unknown film", ""); err != nil {
		t.Fatalf("Set(empty) error = %v", err)
	}
	v, ok, err = s.Get(ctx, "unknown film")
	if err != nil || !ok || v != "" {
		t.Errorf("Get(unknown film) = (%q, %v, %v), want (\"\", true, nil)", v, ok, err)
	}

	if err := s.Set(ctx, "avatar", "https://image.tmdb.org/t/p/w500/new.jpg"); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := s.Get(ctx, "avatar"); v != "https://image.tmdb.org/t/p/w500/new.jpg" {
		t.Errorf("overwrite not visible, got %q", v)
	}

	n, err := s.Len(ctx)
	if err != nil || n != 2 {
		t.Errorf("Len() = (%d, %v), want 2", n, err)
	}
	if err := ReportSize(ctx, s); err != nil {
		t.Errorf("ReportSize() error = %v", err)
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	defer m.Close()
	exerciseStore(t, m)

	st := m.Stats()
	if st.Hits == 0 || st.Misses == 0 || st.Keys != 2 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.HitRate() <= 0 || st.HitRate() > 100 {
		t.Errorf("HitRate() = %v", st.HitRate())
	}
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("title-%d", i%10)
			_ = m.Set(ctx, key, key)
			if v, ok, _ := m.Get(ctx, key); ok && v != key {
				t.Errorf("Get(%s) = %q", key, v)
			}
		}(i)
	}
	wg.Wait()

	if n, _ := m.Len(ctx); n != 10 {
		t.Errorf("Len() = %d, want 10", n)
	}
}

func TestBadger(t *testing.T) {
	t.Parallel()
	b, err := OpenBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	defer b.Close()

	exerciseStore(t, b)
	if err := b.RunGC(0.5); err != nil {
		t.Errorf("RunGC() in memory mode = %v, want nil", err)
	}
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()

	b, err := OpenBadger(BadgerOptions{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Set(ctx, "heat", "https://image.tmdb.org/t/p/w500/heat.jpg"); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	b, err = OpenBadger(BadgerOptions{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if v, ok, _ := b.Get(ctx, "heat"); !ok || v != "https://image.tmdb.org/t/p/w500/heat.jpg" {
		t.Errorf("Get after reopen = (%q, %v)", v, ok)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := New(ctx, config.PosterCacheConfig{Backend: config.PosterBackendMemory})
	if err != nil || s.Backend() != "memory" {
		t.Fatalf("New(memory) = (%v, %v)", s, err)
	}
	_ = s.Close()

	s, err = New(ctx, config.PosterCacheConfig{Backend: config.PosterBackendBadger, Path: t.TempDir()})
	if err != nil || s.Backend() != "badger" {
		t.Fatalf("New(badger) = (%v, %v)", s, err)
	}
	_ = s.Close()

	if _, err := New(ctx, config.PosterCacheConfig{Backend: "memcached"}); err == nil {
		t.Error("New(memcached) succeeded, want error")
	}
}
