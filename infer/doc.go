// Package infer turns a traced probabilistic model into the artifacts a
// gradient-based sampler consumes: a potential-energy function over an
// unconstrained parameter vector, a numerically valid starting point, and
// a constrain function mapping unconstrained draws back into each site's
// support. It also provides vectorized posterior-predictive sampling and
// observed-site log-likelihood evaluation.
//
// 🔭 The pipeline
//
//  1. LogDensity sums per-site log-probabilities of a fully substituted
//     model execution into one joint log-density scalar.
//  2. PotentialEnergy evaluates −log joint density as a function of
//     unconstrained parameters, adding the log-Jacobian correction of the
//     unconstrained→constrained change of variables per site.
//  3. Initialization strategies (InitToMedian, InitToPrior, InitToUniform,
//     InitToFeasible, InitToValue) propose per-site starting values in
//     constrained space.
//  4. FindValidInitialParams retries strategy draws up to a bounded budget
//     until potential energy and its gradient are finite.
//  5. InitializeModel orchestrates the above per chain and returns
//     (initial parameters, potential function, constrain function).
//  6. Predictive and LogLikelihood map a model over a batch of posterior
//     samples, independently and order-preservingly.
//
// 🧮 Parameter vectors
//
//	Parameters are flat maps from site name to vector (Params). Gradients
//	are taken over a deterministic name-sorted ravel of that map, using
//	central finite differences (gonum/diff/fd).
//
// ⚖️ Evaluation modes
//
//	EvalEager permits early exits and fatal aborts: an already-valid
//	prototype short-circuits the search, and initialization failure is an
//	error. EvalStaged runs the search without the prototype short-circuit
//	and never fails on invalid chains; callers inspect the per-chain
//	validity flags themselves. Batched execution is identical in both
//	modes: independent, order-preserving applications per chain or sample
//	with no shared mutable state.
//
// All randomness is threaded as explicit rng.Key values, split and never
// reused, so identical keys reproduce identical results bit for bit.
package infer
