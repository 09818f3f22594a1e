// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// RedisOptions configures the shared store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key so the database can be shared.
	Prefix string
}

// Redis shares poster lookups between replicas.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects and verifies the server with a PING.
func NewRedis(ctx context.Context, o RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", o.Addr, err)
	}

	logging.Info().Str("addr", o.Addr).Int("db", o.DB).Msg("Poster cache connected to Redis")
	return &Redis{client: client, prefix: o.Prefix}, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheAccess(r.Backend(), false)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	metrics.RecordCacheAccess(r.Backend(), true)
	return val, true, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Len implements Store. It scans the key prefix, so it is meant for periodic
// reporting, not the request path.
func (r *Redis) Len(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return count, nil
}

// Backend implements Store.
func (r *Redis) Backend() string { return "redis" }

// Close implements Store.
func (r *Redis) Close() error {
	return r.client.Close()
}
