// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package main is the entry point for the CineMatch server.

CineMatch serves content-based movie recommendations from a precomputed TF-IDF
catalogue, resolves posters through TMDB and keeps user accounts in SQLite.

# Startup

 1. Configuration: Koanf v2 over defaults, config.yaml, .env and environment
 2. Logging: zerolog with the configured level and format
 3. Application context: catalogue, poster cache, TMDB fetchers, user store,
    JWT manager (see internal/app). A catalogue failure exits the process.
 4. Supervisor tree: HTTP server in the api layer, poster cache maintenance
    in the storage layer

# Process Tree

	RootSupervisor ("cinematch")
	├── StorageSupervisor ("storage-layer")
	│   └── CacheMaintenanceService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

# Example

	export DATA_DIR=/srv/cinematch/artifacts
	export TMDB_API_KEY=your-tmdb-key
	export JWT_SECRET=$(openssl rand -base64 32)
	./cinematch

# Signals

SIGINT and SIGTERM cancel the tree. The HTTP server stops accepting
connections and waits up to SHUTDOWN_TIMEOUT for in-flight requests, then the
user store and poster cache are closed.
*/
package main
