// SPDX-License-Identifier: MIT

package infer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

var (
	// ErrInitializationExhausted indicates the bounded search spent its
	// whole retry budget without one finite-energy, finite-gradient
	// candidate.
	ErrInitializationExhausted = errors.New("infer: cannot find valid initial parameters; check the model")
	// ErrNoBatchSize indicates predictive evaluation with neither
	// posterior samples nor an explicit sample count.
	ErrNoBatchSize = errors.New("infer: cannot infer the number of samples")
	// ErrRaggedSamples indicates posterior sample batches whose leading
	// sizes disagree.
	ErrRaggedSamples = errors.New("infer: posterior sample batches must share one leading size")
	// ErrNoKeys indicates initialization called without any chain key.
	ErrNoKeys = errors.New("infer: at least one chain key is required")
)

// Params is a flat unconstrained-or-constrained parameter assignment: one
// vector per site name. Any nesting lives in the naming convention.
type Params map[string][]float64

// Clone returns a deep copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for name, v := range p {
		out[name] = vec.Clone(v)
	}
	return out
}

// names returns the site names in sorted order, the canonical ordering
// for ravelling and for deterministic accumulation.
func (p Params) names() []string {
	out := make([]string, 0, len(p))
	for name := range p {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// EvalMode selects between the two execution disciplines of the
// initialization search.
type EvalMode int

const (
	// EvalEager permits early exits and fatal aborts: an already-valid
	// prototype short-circuits the search and exhausted initialization is
	// an error.
	EvalEager EvalMode = iota
	// EvalStaged runs the full search without the prototype short-circuit
	// and never aborts on invalid chains; validity inspection is deferred
	// to the caller via the per-chain flags.
	EvalStaged
)

// Numeric defaults of the initialization machinery.
const (
	// DefaultMaxTries bounds the valid-parameter search.
	DefaultMaxTries = 100
	// DefaultMedianSamples is the prior-draw count behind InitToMedian.
	DefaultMedianSamples = 15
	// DefaultUniformRadius is the half-width of the unconstrained box
	// behind InitToUniform.
	DefaultUniformRadius = 2.0
)

// InitOptions configures FindValidInitialParams and InitializeModel.
//
//   - Strategy: per-site initializer (default InitToUniform(2)).
//   - MaxTries: retry budget of the search (default 100).
//   - Mode: eager or staged evaluation discipline.
//   - ParamAsImproper: treat param sites as latent sites with improper
//     priors during the search (InitializeModel always does).
//   - Prototype / PrototypeTransforms: a caller-supplied starting vector
//     with its site transforms; under EvalEager a valid prototype returns
//     immediately without entering the retry loop.
type InitOptions struct {
	Strategy            Strategy
	MaxTries            int
	Mode                EvalMode
	ParamAsImproper     bool
	Prototype           Params
	PrototypeTransforms map[string]transform.Transform
}

// DefaultInitOptions returns the documented defaults.
func DefaultInitOptions() *InitOptions {
	return &InitOptions{
		Strategy: InitToUniform(DefaultUniformRadius),
		MaxTries: DefaultMaxTries,
		Mode:     EvalEager,
	}
}

// PredictiveOptions configures Predictive and LogLikelihood.
//
//   - NumSamples: explicit batch size, used only when no posterior
//     samples are supplied; when both are present and disagree the batch
//     size wins and Warnf is told.
//   - ReturnSites: the site names to collect; nil collects every
//     non-plate site absent from the posterior samples.
//   - Parallel: maximum concurrent model executions (0 = unbounded).
//   - Warnf: sink for non-fatal warnings.
type PredictiveOptions struct {
	NumSamples  int
	ReturnSites []string
	Parallel    int
	Warnf       func(format string, args ...any)
}

// DefaultPredictiveOptions returns the documented defaults; warnings go
// to standard output.
func DefaultPredictiveOptions() *PredictiveOptions {
	return &PredictiveOptions{
		Warnf: func(format string, args ...any) {
			fmt.Printf(format+"\n", args...)
		},
	}
}
