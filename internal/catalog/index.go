// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// Query defaults and bounds.
const (
	DefaultRecommendations = 12
	MaxRecommendations     = 30
	DefaultPerPage         = 20
	MaxPerPage             = 50
	DefaultSearchLimit     = 20
	DefaultTitlesLimit     = 50000
)

// ErrInvalidArtifact wraps every catalogue load failure caused by malformed or
// inconsistent model files.
var ErrInvalidArtifact = errors.New("invalid catalog artifact")

// posting is one non-zero cell of a term column.
type posting struct {
	row    int
	weight float64
}

// Index is the immutable similarity index over the catalogue. All methods are
// safe for concurrent use because nothing is mutated after NewIndex returns.
type Index struct {
	rows        []Row
	lowerTitles []string
	exact       map[string]int
	vectors     []SparseVector
	postings    [][]posting
	byPop       []int
	titles      []string
	vocabSize   int
	nnz         int
	loadedAt    time.Time
	buildTime   time.Duration
}

// Stats summarizes the loaded index.
type Stats struct {
	Movies         int       `json:"movies"`
	DistinctTitles int       `json:"distinct_titles"`
	Vocabulary     int       `json:"vocabulary"`
	NonZero        int       `json:"nonzero"`
	LoadedAt       time.Time `json:"loaded_at"`
	BuildMillis    int64     `json:"build_ms"`
}

// NewIndex vectorizes every row's tags with vec and builds the lookup tables.
func NewIndex(rows []Row, vec *Vectorizer) (*Index, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: catalogue has no rows", ErrInvalidArtifact)
	}
	if vec == nil {
		return nil, fmt.Errorf("%w: vectorizer is required", ErrInvalidArtifact)
	}
	start := time.Now()

	vectors := make([]SparseVector, len(rows))
	for i, r := range rows {
		vectors[i] = vec.Transform(r.Tags)
	}
	idx, err := newIndexFromVectors(rows, vectors, vec.VocabularySize())
	if err != nil {
		return nil, err
	}
	idx.buildTime = time.Since(start)
	return idx, nil
}

// newIndexFromVectors builds the index from precomputed rows. Vectors are
// L2-normalized here so the dot product is the cosine similarity.
func newIndexFromVectors(rows []Row, vectors []SparseVector, vocabSize int) (*Index, error) {
	if len(vectors) != len(rows) {
		return nil, fmt.Errorf("%w: %d vectors for %d rows", ErrInvalidArtifact, len(vectors), len(rows))
	}

	idx := &Index{
		rows:        rows,
		lowerTitles: make([]string, len(rows)),
		exact:       make(map[string]int, len(rows)),
		vectors:     make([]SparseVector, len(rows)),
		postings:    make([][]posting, vocabSize),
		vocabSize:   vocabSize,
		loadedAt:    time.Now(),
	}

	seenTitle := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		lower := strings.ToLower(r.Title)
		idx.lowerTitles[i] = lower
		if _, ok := idx.exact[lower]; !ok {
			idx.exact[lower] = i
		}
		if r.Title != "" {
			if _, ok := seenTitle[r.Title]; !ok {
				seenTitle[r.Title] = struct{}{}
				idx.titles = append(idx.titles, r.Title)
			}
		}

		v := vectors[i].Normalized()
		idx.vectors[i] = v
		for k, col := range v.Indices {
			if col < 0 || col >= vocabSize {
				return nil, fmt.Errorf("%w: row %d references column %d outside vocabulary of %d", ErrInvalidArtifact, i, col, vocabSize)
			}
			idx.postings[col] = append(idx.postings[col], posting{row: i, weight: v.Values[k]})
		}
		idx.nnz += v.NNZ()
	}

	idx.byPop = make([]int, len(rows))
	pop := make([]float64, len(rows))
	for i, r := range rows {
		idx.byPop[i] = i
		pop[i] = parseNumber(r.Popularity)
	}
	sort.SliceStable(idx.byPop, func(a, b int) bool {
		return pop[idx.byPop[a]] > pop[idx.byPop[b]]
	})

	return idx, nil
}

// Len returns the number of catalogue rows.
func (x *Index) Len() int {
	return len(x.rows)
}

// VocabularySize returns the number of TF-IDF columns.
func (x *Index) VocabularySize() int {
	return x.vocabSize
}

// Stats returns summary information for health reporting.
func (x *Index) Stats() Stats {
	return Stats{
		Movies:         len(x.rows),
		DistinctTitles: len(x.titles),
		Vocabulary:     x.vocabSize,
		NonZero:        x.nnz,
		LoadedAt:       x.loadedAt,
		BuildMillis:    x.buildTime.Milliseconds(),
	}
}

// Row returns the row at position i.
func (x *Index) Row(i int) (Row, bool) {
	if i < 0 || i >= len(x.rows) {
		return Row{}, false
	}
	return x.rows[i], true
}

// ResolveTitle maps a free-text title to a row: exact case-insensitive match
// first, then the first row whose title contains the query. Both steps prefer
// the earliest row in catalogue order.
func (x *Index) ResolveTitle(query string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, false
	}
	if i, ok := x.exact[q]; ok {
		return i, true
	}
	for i, t := range x.lowerTitles {
		if strings.Contains(t, q) {
			return i, true
		}
	}
	return 0, false
}

// Similarity returns the cosine similarity between rows a and b.
func (x *Index) Similarity(a, b int) float64 {
	if a < 0 || b < 0 || a >= len(x.vectors) || b >= len(x.vectors) {
		return 0
	}
	return x.vectors[a].Dot(x.vectors[b])
}

// Recommend returns up to n movies most similar to the resolved title, best
// first, never including the resolved movie itself. Equal scores keep
// catalogue order. An unresolvable title yields an empty result.
func (x *Index) Recommend(title string, n int) []Movie {
	start := time.Now()
	src, ok := x.ResolveTitle(title)
	if !ok {
		metrics.RecordCatalogQuery("recommend", time.Since(start), 0)
		return []Movie{}
	}
	n = clamp(n, 1, MaxRecommendations)

	ranked := x.rank(src, n)
	out := make([]Movie, len(ranked))
	for i, row := range ranked {
		out[i] = NewMovie(x.rows[row])
	}
	metrics.RecordCatalogQuery("recommend", time.Since(start), len(out))
	return out
}

// rank returns the n best rows for src. It produces the same order as a
// stable descending sort of every other row by score, but only sorts the
// rows that share at least one term with src.
func (x *Index) rank(src, n int) []int {
	scores := make([]float64, len(x.rows))
	seen := make([]bool, len(x.rows))
	touched := make([]int, 0, 64)
	q := x.vectors[src]
	for k, col := range q.Indices {
		w := q.Values[k]
		for _, p := range x.postings[col] {
			if !seen[p.row] {
				seen[p.row] = true
				touched = append(touched, p.row)
			}
			scores[p.row] += w * p.weight
		}
	}

	var pos, neg []int
	for _, row := range touched {
		if row == src {
			continue
		}
		switch s := scores[row]; {
		case s > 0:
			pos = append(pos, row)
		case s < 0:
			neg = append(neg, row)
		}
	}
	// touched is in discovery order, restore catalogue order before the stable sort.
	sort.Ints(pos)
	sort.Ints(neg)
	byScore := func(rows []int) {
		sort.SliceStable(rows, func(a, b int) bool {
			return scores[rows[a]] > scores[rows[b]]
		})
	}
	byScore(pos)
	byScore(neg)

	limit := min(n, len(x.rows)-1)
	out := make([]int, 0, limit)
	out = append(out, pos[:min(len(pos), limit)]...)
	for row := 0; row < len(x.rows) && len(out) < limit; row++ {
		if row != src && scores[row] == 0 {
			out = append(out, row)
		}
	}
	for _, row := range neg {
		if len(out) >= limit {
			break
		}
		out = append(out, row)
	}
	return out
}

// Trending returns one page of the catalogue ordered by popularity, highest
// first. Equal popularity keeps catalogue order. Pages past the end are empty.
func (x *Index) Trending(page, perPage int) []Movie {
	start := time.Now()
	if page < 1 {
		page = 1
	}
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	perPage = clamp(perPage, 1, MaxPerPage)

	lo := (page - 1) * perPage
	if lo >= len(x.byPop) || lo < 0 {
		metrics.RecordCatalogQuery("trending", time.Since(start), 0)
		return []Movie{}
	}
	hi := min(lo+perPage, len(x.byPop))

	out := make([]Movie, 0, hi-lo)
	for _, row := range x.byPop[lo:hi] {
		out = append(out, NewMovie(x.rows[row]))
	}
	metrics.RecordCatalogQuery("trending", time.Since(start), len(out))
	return out
}

// Search returns up to limit movies whose title contains query,
// case-insensitively, in catalogue order. An empty query matches every title.
func (x *Index) Search(query string, limit int) []Movie {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Movie, 0, min(limit, 8))
	for i, t := range x.lowerTitles {
		if len(out) >= limit {
			break
		}
		if strings.Contains(t, q) {
			out = append(out, NewMovie(x.rows[i]))
		}
	}
	metrics.RecordCatalogQuery("search", time.Since(start), len(out))
	return out
}

// AllTitles returns up to limit distinct non-empty titles in first-seen order.
func (x *Index) AllTitles(limit int) []string {
	if limit <= 0 {
		limit = DefaultTitlesLimit
	}
	n := min(limit, len(x.titles))
	out := make([]string, n)
	copy(out, x.titles[:n])
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
