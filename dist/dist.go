// SPDX-License-Identifier: MIT

package dist

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

var (
	// ErrNeedsCDF indicates an attempt to censor a base distribution that
	// does not expose a cumulative distribution function.
	ErrNeedsCDF = errors.New("dist: censoring requires a base distribution with a CDF")
	// ErrNeedsPositiveSupport indicates an attempt to censor a base
	// distribution whose support is not the strictly positive half line.
	ErrNeedsPositiveSupport = errors.New("dist: censoring requires a base distribution with strictly positive support")
)

// Distribution is the minimal contract every distribution fulfills.
//
//   - LogProb evaluates the per-element log density of value, broadcast
//     against the batch under the scalar-or-equal rule.
//   - Support reports the constraint the distribution's values satisfy.
//   - BatchLen is the broadcast length of the parameter vectors.
//   - Sample draws n independent variates, each a vector of batch length,
//     consuming randomness only from src.
type Distribution interface {
	LogProb(value []float64) []float64
	Support() transform.Constraint
	BatchLen() int
	Sample(src rand.Source, n int) [][]float64
}

// CDFer is the optional cumulative-distribution capability.
type CDFer interface {
	CDF(value []float64) []float64
}

// HasBase marks a distribution that is a deterministic transform of a
// simpler base distribution. BaseTransform maps base-space values onto the
// distribution's own support.
type HasBase interface {
	Base() Distribution
	BaseTransform() transform.Transform
}

// IntermediateSampler draws a single variate while recording the
// pre-transform values: inter[0] is the base-distribution draw, any
// further entries are composed-transform stage values.
type IntermediateSampler interface {
	SampleWithIntermediates(src rand.Source) (value []float64, inter [][]float64)
}

// IntermediateLogProber evaluates the log density reusing recorded
// pre-transform values instead of inverting the transform again.
type IntermediateLogProber interface {
	LogProbWithIntermediates(value []float64, inter [][]float64) []float64
}

// mustBroadcast resolves a broadcast length, panicking on incompatible
// shapes: mismatched parameter or value lengths are programmer errors.
func mustBroadcast(n, m int) int {
	k, err := vec.Broadcast2(n, m)
	if err != nil {
		panic(fmt.Sprintf("dist: incompatible lengths %d and %d", n, m))
	}
	return k
}
