// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"testing"
)

var testTokenRE = regexp.MustCompile(defaultTokenPattern)

// fitTestVectorizer fits a smoothed-idf vocabulary over docs the same way the
// offline training job does, so tests can build small indexes in memory.
func fitTestVectorizer(t testing.TB, docs []string) *Vectorizer {
	t.Helper()
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]bool)
		for _, tok := range testTokenRE.FindAllString(strings.ToLower(d), -1) {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	f := &vectorizerFile{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		f.Vocabulary[term] = i
		f.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	v, err := newVectorizer(f)
	if err != nil {
		t.Fatalf("newVectorizer: %v", err)
	}
	return v
}

func buildTestIndex(t testing.TB, rows []Row) *Index {
	t.Helper()
	docs := make([]string, len(rows))
	for i, r := range rows {
		docs[i] = r.Tags
	}
	idx, err := NewIndex(rows, fitTestVectorizer(t, docs))
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return idx
}

// sampleRows is a tiny catalogue with clear neighbours.
func sampleRows() []Row {
	return []Row{
		{Title: "Avatar", Overview: "A marine on an alien world.", Genres: "Action Adventure", Tags: "action adventure fantasy space alien marine pandora", VoteAverage: "7.2", Popularity: "150.4"},
		{Title: "Aliens", Overview: "Marines fight xenomorphs.", Genres: "Action Horror", Tags: "action space alien marine xenomorph", VoteAverage: "7.7", Popularity: "67.6"},
		{Title: "Titanic", Overview: "A ship meets an iceberg.", Genres: "Drama Romance", Tags: "romance drama ship iceberg", VoteAverage: "7.5", Popularity: "100.0"},
		{Title: "Guardians of the Galaxy", Overview: "Misfits in space.", Genres: "Action Comedy", Tags: "action space adventure comedy", VoteAverage: "7.9", Popularity: "481.1"},
		{Title: "The Notebook", Overview: "A love story.", Genres: "Romance", Tags: "romance drama letters", VoteAverage: "7.7", Popularity: "100.0"},
		{Title: "Untagged", Overview: "", Tags: "", VoteAverage: "n/a", Popularity: ""},
	}
}

func titlesOf(movies []Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}
