// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Paths locates the three catalogue artifacts. Indices is optional.
type Paths struct {
	Movies     string
	Indices    string
	Vectorizer string
}

// Load reads the artifacts and builds the similarity index. Any failure is
// returned wrapped; callers treat it as fatal at startup.
func Load(ctx context.Context, p Paths) (*Index, error) {
	start := time.Now()

	rows, err := readFile(p.Movies, ReadRows)
	if err != nil {
		return nil, fmt.Errorf("load movies %s: %w", p.Movies, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec, err := readFile(p.Vectorizer, ReadVectorizer)
	if err != nil {
		return nil, fmt.Errorf("load vectorizer %s: %w", p.Vectorizer, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.Indices != "" {
		titles, err := readFile(p.Indices, ReadTitleIndex)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logging.Debug().Str("path", p.Indices).Msg("Title index not present, deriving from catalogue")
		case err != nil:
			return nil, fmt.Errorf("load title index %s: %w", p.Indices, err)
		default:
			if err := CheckTitleIndex(rows, titles); err != nil {
				return nil, fmt.Errorf("title index %s: %w", p.Indices, err)
			}
		}
	}

	idx, err := NewIndex(rows, vec)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordCatalogLoad(idx.Len(), idx.VocabularySize(), elapsed)
	logging.Info().
		Int("movies", idx.Len()).
		Int("vocabulary", idx.VocabularySize()).
		Int("nonzero", idx.nnz).
		Dur("duration", elapsed).
		Msg("Catalogue loaded")
	return idx, nil
}

func readFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return decode(f)
}

// ReadRows parses the movie table. The first record is the header; columns are
// located by name and a missing optional column reads as empty. The tag column
// is "Tags", falling back to "tags".
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: movie table is empty", ErrInvalidArtifact)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidArtifact, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("%w: movie table has no title column", ErrInvalidArtifact)
	}
	tagsCol := "Tags"
	if _, ok := cols[tagsCol]; !ok {
		tagsCol = "tags"
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidArtifact, len(rows)+1, err)
		}
		rows = append(rows, Row{
			Title:       field(rec, "title"),
			Overview:    field(rec, "overview"),
			Genres:      field(rec, "genres"),
			Tagline:     field(rec, "tagline"),
			Tags:        field(rec, tagsCol),
			VoteAverage: field(rec, "vote_average"),
			Popularity:  field(rec, "popularity"),
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: movie table has no rows", ErrInvalidArtifact)
	}
	return rows, nil
}

// ReadTitleIndex decodes the persisted title -> row mapping.
func ReadTitleIndex(r io.Reader) (map[string]int, error) {
	var m map[string]int
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decode title index: %v", ErrInvalidArtifact, err)
	}
	return m, nil
}

// CheckTitleIndex verifies that every entry of a persisted title index points
// at a row carrying that title.
func CheckTitleIndex(rows []Row, titles map[string]int) error {
	for title, i := range titles {
		if i < 0 || i >= len(rows) {
			return fmt.Errorf("%w: %q maps to row %d outside [0,%d)", ErrInvalidArtifact, title, i, len(rows))
		}
		if rows[i].Title != title {
			return fmt.Errorf("%w: %q maps to row %d titled %q", ErrInvalidArtifact, title, i, rows[i].Title)
		}
	}
	return nil
}
