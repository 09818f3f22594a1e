// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package poster talks to TMDB: it resolves titles to poster image URLs and
proxies poster images back to the browser.

# Lookup

Lookup.PosterURL checks the cache first. A hit, including a cached empty string
meaning "looked up, nothing found", returns immediately. Without an API key it
returns "" and caches nothing. Otherwise it queries the search endpoint and
caches whatever it concluded. Upstream failures never reach the caller.

Concurrent misses for the same title are collapsed with singleflight, so at most
one upstream call is made per title.

# Proxy

Proxy.Fetch only contacts https://image.tmdb.org. Timeouts surface as
ErrUpstreamTimeout and everything else as ErrUpstream.

# Transport

Both use a Fetcher. HTTPFetcher is the production implementation, with a
bounded timeout, a token-bucket rate limiter and a circuit breaker; tests pass
a FetcherFunc instead.
*/
package poster
