// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// defaultTokenPattern is the conventional TF-IDF tokenizer: runs of two or
// more word characters. Unicode-aware, equivalent to (?u)\b\w\w+\b.
const defaultTokenPattern = `[\p{L}\p{N}_]{2,}`

// Norm names supported by the vectorizer artifact.
const (
	NormL2   = "l2"
	NormNone = "none"
)

// Vectorizer applies a fitted TF-IDF vocabulary to free text. It is built once
// from the vectorizer artifact and never refitted.
type Vectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	lowercase   bool
	stopWords   map[string]struct{}
	sublinearTF bool
	norm        string
	ngramMin    int
	ngramMax    int
	token       *regexp.Regexp
}

// vectorizerFile is the on-disk shape of the fitted vectorizer.
type vectorizerFile struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Lowercase    *bool          `json:"lowercase,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty"`
	Norm         string         `json:"norm,omitempty"`
	NgramRange   []int          `json:"ngram_range,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty"`
}

// ReadVectorizer decodes and validates a fitted vectorizer artifact.
func ReadVectorizer(r io.Reader) (*Vectorizer, error) {
	var f vectorizerFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode vectorizer: %v", ErrInvalidArtifact, err)
	}
	return newVectorizer(&f)
}

func newVectorizer(f *vectorizerFile) (*Vectorizer, error) {
	if len(f.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: vectorizer vocabulary is empty", ErrInvalidArtifact)
	}
	if len(f.IDF) != len(f.Vocabulary) {
		return nil, fmt.Errorf("%w: vectorizer has %d idf weights for %d terms", ErrInvalidArtifact, len(f.IDF), len(f.Vocabulary))
	}
	seen := make([]bool, len(f.IDF))
	for term, col := range f.Vocabulary {
		if col < 0 || col >= len(f.IDF) {
			return nil, fmt.Errorf("%w: term %q maps to column %d outside [0,%d)", ErrInvalidArtifact, term, col, len(f.IDF))
		}
		if seen[col] {
			return nil, fmt.Errorf("%w: column %d assigned to more than one term", ErrInvalidArtifact, col)
		}
		seen[col] = true
	}
	for col, w := range f.IDF {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: idf for column %d is not finite", ErrInvalidArtifact, col)
		}
	}

	v := &Vectorizer{
		vocabulary:  f.Vocabulary,
		idf:         f.IDF,
		lowercase:   f.Lowercase == nil || *f.Lowercase,
		sublinearTF: f.SublinearTF,
		norm:        strings.ToLower(f.Norm),
		ngramMin:    1,
		ngramMax:    1,
	}

	switch v.norm {
	case "":
		v.norm = NormL2
	case NormL2, NormNone:
	default:
		return nil, fmt.Errorf("%w: unsupported norm %q", ErrInvalidArtifact, f.Norm)
	}

	if len(f.NgramRange) == 2 {
		if f.NgramRange[0] < 1 || f.NgramRange[1] < f.NgramRange[0] {
			return nil, fmt.Errorf("%w: invalid ngram_range %v", ErrInvalidArtifact, f.NgramRange)
		}
		v.ngramMin, v.ngramMax = f.NgramRange[0], f.NgramRange[1]
	}

	pattern := defaultTokenPattern
	if p := strings.TrimPrefix(f.TokenPattern, "(?u)"); p != "" && p != `\b\w\w+\b` {
		pattern = p
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: token_pattern: %v", ErrInvalidArtifact, err)
	}
	v.token = re

	if len(f.StopWords) > 0 {
		v.stopWords = make(map[string]struct{}, len(f.StopWords))
		for _, w := range f.StopWords {
			v.stopWords[w] = struct{}{}
		}
	}
	return v, nil
}

// VocabularySize returns the matrix dimensionality.
func (v *Vectorizer) VocabularySize() int {
	return len(v.idf)
}

// Analyze splits text into the terms the vocabulary is keyed by, including
// n-grams when the artifact was fitted with them.
func (v *Vectorizer) Analyze(text string) []string {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	tokens := v.token.FindAllString(text, -1)
	if v.stopWords != nil {
		kept := tokens[:0]
		for _, t := range tokens {
			if _, stop := v.stopWords[t]; !stop {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}
	if v.ngramMin == 1 && v.ngramMax == 1 {
		return tokens
	}

	terms := make([]string, 0, len(tokens)*(v.ngramMax-v.ngramMin+1))
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// Transform maps text to its TF-IDF row. Out-of-vocabulary terms are ignored.
func (v *Vectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.Analyze(text) {
		if col, ok := v.vocabulary[term]; ok {
			counts[col]++
		}
	}
	for col, tf := range counts {
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		counts[col] = tf * v.idf[col]
	}
	vec := newSparseVector(counts)
	if v.norm == NormL2 {
		vec = vec.Normalized()
	}
	return vec
}
