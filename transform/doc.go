// Package transform defines support constraints and the bijections that map
// an unrestricted real parameterization onto them, together with the
// log-Jacobian accounting required for change-of-variables density
// corrections.
//
// A Transform is an invertible, differentiable, element-wise map. Apply goes
// from unconstrained space to the constrained support; Invert goes back;
// LogAbsDetJacobian(x, y) reports, per element, the log absolute determinant
// of the forward map at x (with y = Apply(x) supplied so implementations can
// reuse it instead of recomputing the forward pass).
//
// Constraints form a closed set — Real, Positive and Interval — and
// BijectionFor resolves each to its canonical bijection:
//
//	Real            → Identity
//	Positive        → Exp
//	Interval(lo,hi) → Compose(Sigmoid, Affine(lo, hi−lo))
//
// Composed transforms expose their constituents via Parts, ordered with the
// part nearest the unconstrained side first, and can record the intermediate
// values between stages so callers avoid recomputing the forward pass when
// evaluating Jacobians.
//
// All transforms are immutable value types; none holds state.
package transform
