// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"math"
	"sort"
)

// SparseVector is a document-term row: strictly increasing column indices
// with their weights.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// NNZ returns the number of stored entries.
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// Norm returns the L2 magnitude.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalized returns a unit-length copy. Zero vectors are returned unchanged.
func (v SparseVector) Normalized() SparseVector {
	n := v.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return v
	}
	out := SparseVector{
		Indices: append([]int(nil), v.Indices...),
		Values:  make([]float64, len(v.Values)),
	}
	for i, x := range v.Values {
		out.Values[i] = x / n
	}
	return out
}

// Dot returns the inner product by merging the sorted index lists.
func (v SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Cosine returns the cosine similarity of two vectors, 0 when either is zero.
func Cosine(a, b SparseVector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

// newSparseVector builds a vector from an unordered column->weight map,
// dropping explicit zeros.
func newSparseVector(weights map[int]float64) SparseVector {
	idx := make([]int, 0, len(weights))
	for col, w := range weights {
		if w != 0 {
			idx = append(idx, col)
		}
	}
	sort.Ints(idx)
	vals := make([]float64, len(idx))
	for i, col := range idx {
		vals[i] = weights[col]
	}
	return SparseVector{Indices: idx, Values: vals}
}
