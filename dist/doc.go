// Package dist is the distribution layer of lvlprob: a small capability
// interface over gonum/stat/distuv plus the two structural wrappers the
// inference core needs — deterministic transforms of a base distribution
// and right-censored observations.
//
// 🎯 Capability model
//
//	Every distribution exposes LogProb, Support, BatchLen and Sample.
//	Anything beyond that is an optional capability discovered by type
//	assertion, never by concrete-type identity:
//
//	  CDFer                 — cumulative distribution function
//	  HasBase               — deterministic transform of a base distribution
//	  IntermediateSampler   — sampling that records pre-transform values
//	  IntermediateLogProber — density reusing recorded pre-transform values
//
// 📏 Shapes
//
//	Values are flat vectors. A distribution has a batch length (its
//	parameter vectors broadcast under the scalar-or-equal rule of package
//	vec), and LogProb broadcasts the value against the batch the same way.
//	Sample(src, n) returns n independent draws, each of batch length.
//
// Parameter-shape mismatches are programmer errors and panic at
// construction; data-dependent failures (censoring a base distribution
// with no CDF or with the wrong support) are reported as errors at
// construction time, never deferred to evaluation.
//
// Randomness enters only through an explicit rand.Source, typically
// obtained from an rng.Key.
package dist
