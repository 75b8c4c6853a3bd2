// SPDX-License-Identifier: MIT

package vec

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmpty indicates a vector argument with no elements.
	ErrEmpty = errors.New("vec: vector must be non-empty")
	// ErrBroadcast indicates two lengths that are neither equal nor scalar.
	ErrBroadcast = errors.New("vec: lengths are not broadcast-compatible")
	// ErrRagged indicates rows of differing lengths where a rectangular
	// batch was required.
	ErrRagged = errors.New("vec: rows must share one length")
)

// ValidateNonEmpty fails with ErrEmpty when x has no elements.
func ValidateNonEmpty(x []float64) error {
	if len(x) == 0 {
		return ErrEmpty
	}
	return nil
}

// Clone returns an independent copy of x. Clone(nil) is nil.
func Clone(x []float64) []float64 {
	if x == nil {
		return nil
	}
	out := make([]float64, len(x))
	copy(out, x)
	return out
}

// Fill returns a length-n vector with every element set to v.
func Fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Sum returns the sum of all elements of x. Sum(nil) is 0.
func Sum(x []float64) float64 {
	return floats.Sum(x)
}

// AllFinite reports whether every element of x is finite (no NaN, no ±Inf).
// AllFinite(nil) is true: an empty vector has no offending element.
func AllFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Broadcast2 resolves the common length of two vectors under the
// scalar-or-equal rule: lengths are compatible when they are equal or
// either is 1. Returns the broadcast length or ErrBroadcast.
func Broadcast2(n, m int) (int, error) {
	switch {
	case n == m:
		return n, nil
	case n == 1:
		return m, nil
	case m == 1:
		return n, nil
	default:
		return 0, ErrBroadcast
	}
}

// At indexes x under broadcasting: a length-1 vector behaves as a constant.
// The caller must have validated lengths via Broadcast2.
func At(x []float64, i int) float64 {
	if len(x) == 1 {
		return x[0]
	}
	return x[i]
}

// Median computes the element-wise median of a batch of equal-length rows:
// the middle order statistic for odd batch sizes, the mean of the two middle
// order statistics for even ones. Returns ErrEmpty for an empty batch and
// ErrRagged when row lengths differ.
func Median(rows [][]float64) ([]float64, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}
	width := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) != width {
			return nil, ErrRagged
		}
	}

	out := make([]float64, width)
	col := make([]float64, len(rows))
	mid := len(rows) / 2
	for j := 0; j < width; j++ {
		for i, r := range rows {
			col[i] = r[j]
		}
		sort.Float64s(col)
		if len(col)%2 == 1 {
			out[j] = col[mid]
		} else {
			out[j] = (col[mid-1] + col[mid]) / 2
		}
	}
	return out, nil
}
