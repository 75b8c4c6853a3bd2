// SPDX-License-Identifier: MIT

package dist

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

// RightCensored models observations known only up to a threshold: each
// position carries an event indicator, true for a fully observed value and
// false for a right-censored one. Observed positions contribute the base
// log density; censored positions contribute the log survival probability
// log(1 − CDF(value)).
//
// The batch shape is the broadcast of the base batch and the event vector.
type RightCensored struct {
	base  Distribution
	cdf   CDFer
	event []bool
	n     int
}

// NewRightCensored validates and builds a right-censored wrapper around
// base. The base distribution must expose a CDF (ErrNeedsCDF) and have
// strictly positive support (ErrNeedsPositiveSupport); both are checked
// here, never at evaluation time. An event vector of length one broadcasts
// over the batch.
func NewRightCensored(base Distribution, event []bool) (*RightCensored, error) {
	cdf, ok := base.(CDFer)
	if !ok {
		return nil, ErrNeedsCDF
	}
	if _, ok := base.Support().(transform.PositiveConstraint); !ok {
		return nil, ErrNeedsPositiveSupport
	}
	n, err := vec.Broadcast2(base.BatchLen(), len(event))
	if err != nil {
		return nil, fmt.Errorf("dist: event shape does not broadcast with base batch: %w", err)
	}
	return &RightCensored{base: base, cdf: cdf, event: event, n: n}, nil
}

// Base returns the uncensored event-time distribution.
func (d *RightCensored) Base() Distribution { return d.base }

func (d *RightCensored) BatchLen() int                 { return d.n }
func (d *RightCensored) Support() transform.Constraint { return transform.Positive }

// eventAt indexes the event vector under broadcasting.
func (d *RightCensored) eventAt(i int) bool {
	if len(d.event) == 1 {
		return d.event[0]
	}
	return d.event[i]
}

// LogProb mixes the two contributions position-wise: base log density
// where the event was observed, log survival where it was censored.
func (d *RightCensored) LogProb(value []float64) []float64 {
	m := mustBroadcast(d.n, len(value))
	lp := d.base.LogProb(value)
	cdf := d.cdf.CDF(value)

	out := make([]float64, m)
	for i := range out {
		if d.eventAt(i) {
			out[i] = vec.At(lp, i)
		} else {
			out[i] = math.Log1p(-vec.At(cdf, i))
		}
	}
	return out
}

// Sample draws uncensored event times from the base distribution; the
// censoring mechanism applies to observation, not generation.
func (d *RightCensored) Sample(src rand.Source, n int) [][]float64 {
	return d.base.Sample(src, n)
}
