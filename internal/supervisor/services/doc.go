// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package services adapts CineMatch components to suture.Service.
//
// HTTPServerService turns http.Server's blocking ListenAndServe into a
// context-driven Serve with graceful shutdown. CacheMaintenanceService
// reports the poster cache size and compacts stores that have a value log.
package services
