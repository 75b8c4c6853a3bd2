// SPDX-License-Identifier: MIT

package transform

import "fmt"

// Constraint describes the support of a distribution or parameter: the set
// of values a constrained vector may take. The set of constraint variants
// is closed; consumers switch on the concrete types below.
type Constraint interface {
	// Contains reports whether every element of x lies in the set.
	Contains(x []float64) bool
	// String names the constraint for error messages.
	String() string
}

// RealConstraint is the unrestricted real line.
type RealConstraint struct{}

// Contains accepts every finite or non-finite real; the real line has no
// boundary to violate.
func (RealConstraint) Contains([]float64) bool { return true }

func (RealConstraint) String() string { return "real" }

// PositiveConstraint is the strictly positive half line (0, +∞).
type PositiveConstraint struct{}

// Contains reports whether every element is strictly positive.
func (PositiveConstraint) Contains(x []float64) bool {
	for _, v := range x {
		if v <= 0 {
			return false
		}
	}
	return true
}

func (PositiveConstraint) String() string { return "positive" }

// IntervalConstraint is the open interval (Lo, Hi).
type IntervalConstraint struct {
	Lo, Hi float64
}

// Contains reports whether every element lies strictly inside (Lo, Hi).
func (c IntervalConstraint) Contains(x []float64) bool {
	for _, v := range x {
		if v <= c.Lo || v >= c.Hi {
			return false
		}
	}
	return true
}

func (c IntervalConstraint) String() string {
	return fmt.Sprintf("interval(%g, %g)", c.Lo, c.Hi)
}

// Real is the unrestricted real-line constraint.
var Real Constraint = RealConstraint{}

// Positive is the strictly-positive half-line constraint.
var Positive Constraint = PositiveConstraint{}

// Interval returns the open-interval constraint (lo, hi).
func Interval(lo, hi float64) Constraint {
	return IntervalConstraint{Lo: lo, Hi: hi}
}
