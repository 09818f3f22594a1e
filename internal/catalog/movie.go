// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"math"
	"strconv"
	"strings"
)

// OverviewMaxLen is the number of characters of an overview shown in a
// display record.
const OverviewMaxLen = 200

// Row is one catalogue entry exactly as loaded. Numeric columns keep their raw
// text so display coercion can fall back per field.
type Row struct {
	Title       string
	Overview    string
	Genres      string
	Tagline     string
	Tags        string
	VoteAverage string
	Popularity  string
}

// Movie is the display record returned by every listing endpoint.
type Movie struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Genres      string  `json:"genres"`
	Tagline     string  `json:"tagline"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
	// PosterURL is null until a poster lookup fills it in.
	PosterURL *string `json:"poster_url"`
}

// NewMovie builds the display record for a row.
func NewMovie(r Row) Movie {
	return Movie{
		Title:       r.Title,
		Overview:    truncateRunes(r.Overview, OverviewMaxLen),
		Genres:      r.Genres,
		Tagline:     r.Tagline,
		VoteAverage: parseNumber(r.VoteAverage),
		Popularity:  parseNumber(r.Popularity),
	}
}

// WithPoster returns a copy of m carrying url, or a null poster when url is
// empty.
func (m Movie) WithPoster(url string) Movie {
	if url == "" {
		m.PosterURL = nil
		return m
	}
	m.PosterURL = &url
	return m
}

// parseNumber coerces a raw field to a finite float, 0.0 on any failure.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
