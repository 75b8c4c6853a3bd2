// Package lvlprob is a small probabilistic-programming toolkit: write a
// model as a plain Go function over random sites, and get back everything a
// gradient-based sampler needs to run it — potential energy, valid starting
// points, constrained/unconstrained reparameterization, and vectorized
// posterior-predictive evaluation.
//
// 🎲 What is lvlprob?
//
//	A deterministic, explicitly-seeded inference core that brings together:
//		• Model tracing: composable effect handlers (seed, substitute,
//		  condition, block, scale) over an explicit interpreter context
//		• Distributions: capability-based wrappers over gonum/stat/distuv,
//		  deterministic transforms of base distributions, right-censoring
//		• Bijections: canonical unconstrained↔constrained transforms with
//		  log-Jacobian accounting, including composed transforms
//		• Inference plumbing: joint log-density, potential energy,
//		  initialization strategies, bounded valid-parameter search,
//		  multi-chain model initialization
//		• Predictive tooling: batched posterior-predictive sampling and
//		  per-site observed log-likelihoods
//
// ✨ Why choose lvlprob?
//
//   - Reproducible by construction – immutable splittable keys, no global RNG
//   - Explicit everything – no ambient handler stacks, no hidden state
//   - Pure Go – numeric heavy lifting via gonum, nothing else
//   - Sampler-agnostic – hands a pure potential-energy function to any
//     gradient-based MCMC loop
//
// Everything is organized under six subpackages:
//
//	rng/       — splittable, immutable randomness keys
//	vec/       — element-wise vector kernels (broadcast, median, finiteness)
//	transform/ — constraints, bijections and the canonical-transform registry
//	dist/      — distribution capability layer (log-prob, CDF, base transforms)
//	trace/     — model runtime: sites, traces and composable handlers
//	infer/     — log-density, potential energy, initialization and prediction
//
// Quick sketch:
//
//	model := func(tc *trace.Ctx) error {
//	    rate, err := tc.Sample("rate", dist.NewExponential([]float64{1}))
//	    if err != nil {
//	        return err
//	    }
//	    _, err = tc.Sample("obs", dist.NewExponential(rate), trace.WithObs(data))
//	    return err
//	}
//
//	init, err := infer.InitializeModel([]rng.Key{rng.NewKey(0)}, model, nil)
//
// Dive into the per-package docs for the full contracts, determinism rules
// and worked examples.
//
//	go get github.com/katalvlaran/lvlprob
package lvlprob
