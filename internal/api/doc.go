// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api exposes CineMatch over HTTP using the chi router.

Routes:

	POST /api/register                 create an account
	POST /api/login                    exchange credentials for a bearer token
	GET  /api/movies/trending          popularity-ordered pages (auth)
	GET  /api/movies/search            title substring search (auth)
	GET  /api/movies/recommend/{title} TF-IDF cosine neighbours (auth)
	GET  /api/movies/poster            memoized TMDB poster URL (auth)
	GET  /api/movies/titles            autocomplete titles (auth)
	GET  /api/tmdb-key                 TMDB key for the browser (auth)
	GET  /api/img-proxy                relay of https://image.tmdb.org images
	GET  /api/health[/live|/ready]     health probes
	GET  /metrics                      Prometheus exposition
	GET  /swagger/*                    OpenAPI UI
	GET  /, /dashboard, /static/*      frontend

Every error response is JSON of the form

	{"detail": "...", "code": "NOT_FOUND", "request_id": "..."}

where detail is the message the frontend shows to the user.

Handlers depend on narrow interfaces (Catalog, Accounts, Posters,
ImageFetcher, Pinger) so tests can substitute fakes; internal/app supplies the
production implementations.
*/
package api
