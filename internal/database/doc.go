// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package database is the persistent user store.
//
// # Overview
//
// Accounts live in a single SQLite file opened through the pure-Go
// modernc.org/sqlite driver, so the binary stays CGO-free. The catalogue is
// not stored here; it is loaded into memory by the catalog package.
//
// # Files
//
//   - database.go: connection lifecycle (New, Ping, Close) and pool settings
//   - migrations.go: versioned schema migrations tracked in schema_migrations
//   - users.go: user lookup and creation
//   - errors.go: sentinel errors and SQLite error classification
//
// # Concurrency
//
// DB is safe for concurrent use. Uniqueness of usernames and emails is
// enforced by UNIQUE constraints, so two racing registrations for the same
// name resolve to one success and one ErrDuplicateUser.
//
// # Metrics
//
// Every query is timed with metrics.RecordDBQuery.
package database
