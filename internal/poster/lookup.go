// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package poster

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Default TMDB endpoints.
const (
	DefaultSearchURL    = "https://api.themoviedb.org/3/search/movie"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// enrichConcurrency bounds parallel lookups when filling a listing.
const enrichConcurrency = 4

// LookupConfig configures poster resolution.
type LookupConfig struct {
	// APIKey is the TMDB v3 key. Empty disables lookups entirely.
	APIKey       string
	SearchURL    string
	ImageBaseURL string
	// Enrich makes Enrich fill poster_url on listings.
	Enrich bool
}

// Lookup resolves a title to a poster URL and memoizes the answer, including
// "not found", in a cache.Store.
type Lookup struct {
	cfg     LookupConfig
	fetcher Fetcher
	store   cache.Store
	group   singleflight.Group
}

// NewLookup creates a Lookup. A nil store falls back to an in-memory one.
func NewLookup(cfg LookupConfig, fetcher Fetcher, store cache.Store) *Lookup {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if store == nil {
		store = cache.NewMemory()
	}
	return &Lookup{cfg: cfg, fetcher: fetcher, store: store}
}

// Enabled reports whether an API key is configured.
func (l *Lookup) Enabled() bool {
	return l.cfg.APIKey != ""
}

// APIKey returns the configured TMDB key.
func (l *Lookup) APIKey() string {
	return l.cfg.APIKey
}

// searchResponse is the subset of the TMDB search reply we read.
type searchResponse struct {
	Results []struct {
		PosterPath *string `json:"poster_path"`
	} `json:"results"`
}

// PosterURL returns the poster image URL for title, or "" when there is none
// or it could not be determined. It never returns an error.
func (l *Lookup) PosterURL(ctx context.Context, title string) string {
	if title == "" {
		return ""
	}

	if v, ok, err := l.store.Get(ctx, title); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("backend", l.store.Backend()).Msg("Poster cache read failed, treating as miss")
	} else if ok {
		metrics.RecordPosterLookup("cached")
		return v
	}

	if !l.Enabled() {
		metrics.RecordPosterLookup("disabled")
		return ""
	}

	// Concurrent misses for one title share a single upstream call. The
	// lookup outlives a caller that disconnects so its answer is still cached.
	v, _, _ := l.group.Do(title, func() (interface{}, error) {
		flightCtx := context.WithoutCancel(ctx)
		if v, ok, err := l.store.Get(flightCtx, title); err == nil && ok {
			return v, nil
		}
		found, answered := l.search(flightCtx, title)
		if !answered {
			return found, nil
		}
		if err := l.store.Set(flightCtx, title, found); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("backend", l.store.Backend()).Msg("Poster cache write failed")
		}
		return found, nil
	})
	return v.(string)
}

// search queries TMDB and maps every failure to "". answered is false when
// the request was refused locally by the circuit breaker or rate limiter, so
// the result must not be cached.
func (l *Lookup) search(ctx context.Context, title string) (poster string, answered bool) {
	log := logging.Ctx(ctx)

	q := url.Values{}
	q.Set("api_key", l.cfg.APIKey)
	q.Set("query", title)
	sep := "?"
	if strings.Contains(l.cfg.SearchURL, "?") {
		sep = "&"
	}

	resp, err := l.fetcher.Fetch(ctx, l.cfg.SearchURL+sep+q.Encode())
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrRateLimited) {
		log.Debug().Err(err).Str("title", title).Msg("Poster search not attempted")
		metrics.RecordPosterLookup("unavailable")
		return "", false
	}
	if err != nil {
		log.Debug().Err(err).Str("title", title).Msg("Poster search failed")
		metrics.RecordPosterLookup("error")
		return "", true
	}
	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("title", title).Msg("Poster search returned non-OK status")
		metrics.RecordPosterLookup("error")
		return "", true
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		log.Debug().Err(err).Str("title", title).Msg("Poster search returned malformed JSON")
		metrics.RecordPosterLookup("error")
		return "", true
	}
	if len(body.Results) == 0 || body.Results[0].PosterPath == nil || *body.Results[0].PosterPath == "" {
		metrics.RecordPosterLookup("not_found")
		return "", true
	}

	metrics.RecordPosterLookup("found")
	return l.cfg.ImageBaseURL + *body.Results[0].PosterPath, true
}

// Enrich fills poster_url on each movie when enrichment is enabled and a key
// is configured. Titles without a poster keep a null poster_url. The input
// slice is updated in place and returned.
func (l *Lookup) Enrich(ctx context.Context, movies []catalog.Movie) []catalog.Movie {
	if !l.cfg.Enrich || !l.Enabled() || len(movies) == 0 {
		return movies
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i := range movies {
		g.Go(func() error {
			movies[i] = movies[i].WithPoster(l.PosterURL(gctx, movies[i].Title))
			return nil
		})
	}
	_ = g.Wait()
	return movies
}

// Store returns the backing cache.
func (l *Lookup) Store() cache.Store {
	return l.store
}
