// SPDX-License-Identifier: MIT

package infer

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/katalvlaran/lvlprob/rng"
	"github.com/katalvlaran/lvlprob/trace"
	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

// FindValidInitialParams searches for an unconstrained parameter vector
// at which both the potential energy and its gradient are finite.
//
// Each iteration splits a fresh sub-key, substitutes every latent site
// with a strategy draw, re-traces the model, resolves the
// reparameterization, inverts into unconstrained space and evaluates
// energy and gradient. The first finite candidate wins. The search is
// bounded by opts.MaxTries; when the budget is spent the last (possibly
// invalid) parameters are returned with a false validity flag — the
// caller decides whether that is fatal.
//
// Under EvalEager, a caller-supplied prototype (with its transforms) that
// is already valid returns immediately without entering the loop; under
// EvalStaged the loop always runs.
func FindValidInitialParams(key rng.Key, m trace.Model, opts *InitOptions) (Params, bool, error) {
	if opts == nil {
		opts = DefaultInitOptions()
	}
	maxTries := opts.MaxTries
	if maxTries <= 0 {
		maxTries = DefaultMaxTries
	}
	strat := opts.Strategy
	if strat == nil {
		strat = InitToUniform(DefaultUniformRadius)
	}
	if !opts.ParamAsImproper {
		strat = withoutParams(strat)
	}

	params := opts.Prototype
	valid := false

	if opts.Prototype != nil && opts.PrototypeTransforms != nil && opts.Mode == EvalEager {
		pe, grad := energyAndGrad(m, opts.PrototypeTransforms, opts.Prototype)
		if isFinite(pe) && vec.AllFinite(grad) {
			// Copy so callers mutating the result cannot corrupt the
			// prototype they handed in.
			return opts.Prototype.Clone(), true, nil
		}
	}

	for i := 0; i < maxTries && !valid; i++ {
		var err error
		key, params, valid, err = searchTrial(key, m, strat, opts.ParamAsImproper)
		if err != nil {
			return nil, false, err
		}
	}
	return params, valid, nil
}

// searchTrial runs one iteration of the search: strategy-substituted
// trace, reparameterization, energy and gradient.
func searchTrial(key rng.Key, m trace.Model, strat Strategy, paramAsImproper bool) (rng.Key, Params, bool, error) {
	next, sub := key.Split()

	// Hand every site its own child of the iteration key, split in
	// declaration order so replays are exact.
	siteKey := sub
	fill := func(site *trace.Site) ([]float64, error) {
		var kd rng.Key
		siteKey, kd = siteKey.Split()
		return strat(site, kd)
	}

	tr, err := trace.Run(trace.SubstituteFn(m, fill))
	if err != nil {
		return next, nil, false, err
	}
	res, err := resolveTrace(tr, paramAsImproper)
	if err != nil {
		return next, nil, false, err
	}

	params := res.unconstrained()
	pe, grad := energyAndGrad(m, res.transforms, params)
	valid := isFinite(pe) && vec.AllFinite(grad)
	return next, params, valid, nil
}

// energyAndGrad evaluates the potential energy and its central
// finite-difference gradient over the name-sorted ravel of params.
// Evaluation failures surface as +Inf energy, turning model-level
// problems into invalid (retryable) candidates.
func energyAndGrad(m trace.Model, invTransforms map[string]transform.Transform, params Params) (float64, []float64) {
	names := params.names()
	x0 := ravel(params, names)

	f := func(x []float64) float64 {
		e, err := PotentialEnergy(m, invTransforms, unravel(x, names, params))
		if err != nil {
			return math.Inf(1)
		}
		return e
	}

	pe := f(x0)
	grad := fd.Gradient(nil, f, x0, &fd.Settings{Formula: fd.Central})
	return pe, grad
}

// ravel concatenates the named vectors of params in the given order.
func ravel(params Params, names []string) []float64 {
	var out []float64
	for _, name := range names {
		out = append(out, params[name]...)
	}
	return out
}

// unravel splits a flat vector back into named vectors, taking entry
// lengths from the template.
func unravel(x []float64, names []string, template Params) Params {
	out := make(Params, len(names))
	off := 0
	for _, name := range names {
		n := len(template[name])
		out[name] = x[off : off+n]
		off += n
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
