// Package trace is the model runtime of lvlprob: it executes a
// probabilistic model — a plain Go function over random sites — and
// records every site it declares into an ordered Trace.
//
// 🧵 Execution model
//
//	A Model is a function of an explicit interpreter context (*Ctx). The
//	context is threaded through the run; there is no ambient or global
//	handler state. Inside the model, tc.Sample declares a random site,
//	tc.Param declares a learnable parameter, and tc.Plate declares a batch
//	dimension. Re-running the same decorated model replays the identical
//	trace: models must be free of side effects beyond their declared sites.
//
// 🧩 Handlers
//
//	Behavior is modified by wrapping the model in composable decorators,
//	applied as an explicit pipeline (outermost wrapper wins on conflicts):
//
//	  Seed(m, key)            — provide split-per-site randomness
//	  Substitute(m, values)   — fix site values (constrained space)
//	  SubstituteBase(m, vals) — fix values in base space for sites whose
//	                            distribution is a transform of a base one
//	  SubstituteFn(m, fn)     — compute substitutions per site on the fly
//	  Condition(m, values)    — fix values and mark the sites observed
//	  Block(m)                — execute without recording sites
//	  WithScale(m, s)         — scale the log-density contribution of the
//	                            wrapped sites
//
// Each decorator pushes a scoped handler onto the context for the duration
// of the wrapped call, so composition is ordinary function composition:
//
//	tr, err := trace.Run(trace.Seed(trace.Condition(model, obs), key))
//
// Sites whose distribution is a deterministic transform of a base
// distribution record their pre-transform values as intermediates
// (Intermediates[0] is the base-space value), which the inference core
// uses for base-space density evaluation and reparameterization.
package trace
