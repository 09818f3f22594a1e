// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want float64
	}{
		{"7.2", 7.2},
		{" 150.437577 ", 150.437577},
		{"0", 0},
		{"", 0},
		{"n/a", 0},
		{"NaN", 0},
		{"inf", 0},
		{"-1.5", -1.5},
		{"1e3", 1000},
	}
	for _, tt := range tests {
		if got := parseNumber(tt.in); got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewMovie_TruncatesOverview(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		overview string
		wantLen  int
	}{
		{"short", "A marine on Pandora.", 20},
		{"exactly limit", strings.Repeat("x", OverviewMaxLen), OverviewMaxLen},
		{"over limit", strings.Repeat("y", 350), OverviewMaxLen},
		{"multibyte over limit", strings.Repeat("é", 250), OverviewMaxLen},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMovie(Row{Title: "T", Overview: tt.overview})
			if got := utf8.RuneCountInString(m.Overview); got != tt.wantLen {
				t.Errorf("overview length = %d runes, want %d", got, tt.wantLen)
			}
			if !utf8.ValidString(m.Overview) {
				t.Error("truncated overview is not valid UTF-8")
			}
			if !strings.HasPrefix(tt.overview, m.Overview) {
				t.Error("truncated overview is not a prefix of the original")
			}
		})
	}
}

func TestNewMovie_CoercesNumbers(t *testing.T) {
	t.Parallel()
	m := NewMovie(Row{Title: "Heat", VoteAverage: "not a number", Popularity: "48.3"})
	if m.VoteAverage != 0 {
		t.Errorf("VoteAverage = %v, want 0", m.VoteAverage)
	}
	if m.Popularity != 48.3 {
		t.Errorf("Popularity = %v, want 48.3", m.Popularity)
	}
	if m.PosterURL != nil {
		t.Errorf("PosterURL = %v, want nil", *m.PosterURL)
	}
}

func TestMovieJSON(t *testing.T) {
	t.Parallel()
	m := NewMovie(Row{Title: "Heat", Genres: "Crime", VoteAverage: "7.9", Popularity: "48"})

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"poster_url":null`) {
		t.Errorf("missing null poster_url in %s", b)
	}

	b, err = json.Marshal(m.WithPoster("https://image.tmdb.org/t/p/w500/heat.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"poster_url":"https://image.tmdb.org/t/p/w500/heat.jpg"`) {
		t.Errorf("poster_url not set in %s", b)
	}
	if m.PosterURL != nil {
		t.Error("WithPoster modified the receiver")
	}
	if got := m.WithPoster(""); got.PosterURL != nil {
		t.Error("WithPoster(\"\") should keep poster_url null")
	}
}
