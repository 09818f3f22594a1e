// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package cache provides the key/value stores behind poster memoization.

Three backends implement Store:

  - Memory: a process-lifetime map (default)
  - Badger: embedded BadgerDB, survives restarts
  - Redis: shared between replicas

Values are strings and the empty string is a real value (a cached "no poster
found"), so Get returns a presence flag alongside the value. Entries never
expire; the poster catalogue is stable for the life of a deployment.

# Usage

	store, err := cache.New(ctx, cfg.PosterCache)
	if err != nil {
	    return err
	}
	defer store.Close()

	if url, ok, _ := store.Get(ctx, "avatar"); ok {
	    return url
	}
*/
package cache
