// SPDX-License-Identifier: MIT

package infer

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvlprob/rng"
	"github.com/katalvlaran/lvlprob/trace"
)

// ModelInit is everything a gradient-based sampler needs to run a model:
// per-chain initial unconstrained parameters with their validity flags, a
// pure potential-energy function of a parameter vector, and a constrain
// function mapping unconstrained draws back into each site's support.
type ModelInit struct {
	Params    []Params
	Valid     []bool
	Potential func(Params) (float64, error)
	Constrain func(Params) (Params, error)
}

// InitializeModel prepares a model for sampling with one chain per key.
//
// The model is traced once under the first key to build a prototype
// parameter vector and the per-site inverse transforms (param sites are
// always treated as improper-prior latents here). The potential-energy
// function is closed over the original, unseeded model so it carries no
// dependence on the prototype's randomness. The constrain function
// re-executes the model only when some site's distribution is a
// deterministic transform of a base distribution; otherwise it is a plain
// transform application.
//
// The valid-parameter search then runs independently per key: chains
// neither share state nor influence each other. A single chain may
// short-circuit to the prototype itself when it is already valid; with
// several chains the full per-key search always runs, so no two chains
// start at one point. Under EvalEager any chain left invalid after the
// retry budget aborts with ErrInitializationExhausted; under EvalStaged
// the flags are returned for the caller to inspect.
func InitializeModel(keys []rng.Key, m trace.Model, opts *InitOptions) (*ModelInit, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	if opts == nil {
		opts = DefaultInitOptions()
	}

	tr, err := trace.Run(trace.Seed(m, keys[0]))
	if err != nil {
		return nil, err
	}
	res, err := resolveTrace(tr, true)
	if err != nil {
		return nil, err
	}
	prototype := res.unconstrained()
	inv := res.transforms

	out := &ModelInit{
		Params: make([]Params, len(keys)),
		Valid:  make([]bool, len(keys)),
		Potential: func(p Params) (float64, error) {
			return PotentialEnergy(m, inv, p)
		},
	}
	if res.hasTransformed {
		out.Constrain = func(p Params) (Params, error) {
			return ConstrainValues(m, inv, p)
		}
	} else {
		out.Constrain = func(p Params) (Params, error) {
			return TransformValues(inv, p, false), nil
		}
	}

	chainOpts := *opts
	chainOpts.ParamAsImproper = true
	chainOpts.Prototype = prototype
	// The prototype short-circuit is a single-chain optimization: with
	// several chains it would start them all at the same point.
	if len(keys) == 1 {
		chainOpts.PrototypeTransforms = inv
	}

	var g errgroup.Group
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			co := chainOpts
			p, ok, err := FindValidInitialParams(k, m, &co)
			if err != nil {
				return err
			}
			out.Params[i], out.Valid[i] = p, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Mode == EvalEager {
		for i, ok := range out.Valid {
			if !ok {
				return nil, fmt.Errorf("%w (chain %d)", ErrInitializationExhausted, i)
			}
		}
	}
	return out, nil
}
