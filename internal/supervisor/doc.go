// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor runs CineMatch's long-lived services under suture v4.

# Tree

	RootSupervisor ("cinematch")
	├── StorageSupervisor ("storage-layer")
	│   └── CacheMaintenanceService (poster cache size gauge, Badger GC)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures on its own. A cache maintenance service that keeps
failing enters backoff inside the storage layer while the HTTP server keeps
serving.

# Usage

	tree, err := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler()), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddStorageService(services.NewCacheMaintenanceService(store, cfg.PosterCache.GCInterval))
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

# Failure Handling

Suture keeps a failure counter per supervisor that decays over FailureDecay
seconds. When it passes FailureThreshold, restarts wait FailureBackoff.
Supervisor events are logged through sutureslog into the zerolog-backed
slog handler from the logging package.
*/
package supervisor
