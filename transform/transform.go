// SPDX-License-Identifier: MIT

package transform

import (
	"errors"
	"math"
)

// ErrNoBijection indicates a constraint with no registered canonical
// bijection.
var ErrNoBijection = errors.New("transform: no canonical bijection for constraint")

// Transform is an invertible, differentiable, element-wise map between an
// unconstrained space and a constrained support.
//
//   - Apply maps unconstrained x to constrained y.
//   - Invert maps constrained y back to unconstrained x.
//   - LogAbsDetJacobian returns, per element, log|d Apply / dx| evaluated
//     at x; y = Apply(x) is passed in so implementations may reuse it.
//
// Implementations are immutable value types.
type Transform interface {
	Apply(x []float64) []float64
	Invert(y []float64) []float64
	LogAbsDetJacobian(x, y []float64) []float64
}

// BijectionFor resolves the canonical bijection from unconstrained space
// onto the support described by c:
//
//	Real            → Identity
//	Positive        → Exp
//	Interval(lo,hi) → Compose(Sigmoid, Affine(lo, hi−lo))
func BijectionFor(c Constraint) (Transform, error) {
	switch ct := c.(type) {
	case RealConstraint:
		return Identity{}, nil
	case PositiveConstraint:
		return Exp{}, nil
	case IntervalConstraint:
		return NewCompose(Sigmoid{}, Affine{Loc: ct.Lo, Scale: ct.Hi - ct.Lo}), nil
	default:
		return nil, ErrNoBijection
	}
}

// Identity is the trivial bijection of the real line onto itself.
type Identity struct{}

func (Identity) Apply(x []float64) []float64  { return clone(x) }
func (Identity) Invert(y []float64) []float64 { return clone(y) }

// LogAbsDetJacobian of the identity is zero everywhere.
func (Identity) LogAbsDetJacobian(x, _ []float64) []float64 {
	return make([]float64, len(x))
}

// Exp maps the real line onto the positive half line via y = e^x.
type Exp struct{}

func (Exp) Apply(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Exp(v)
	}
	return out
}

func (Exp) Invert(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = math.Log(v)
	}
	return out
}

// LogAbsDetJacobian of y = e^x is x itself.
func (Exp) LogAbsDetJacobian(x, _ []float64) []float64 {
	return clone(x)
}

// Sigmoid maps the real line onto the open unit interval via the logistic
// function y = 1/(1+e^−x).
type Sigmoid struct{}

func (Sigmoid) Apply(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = 1 / (1 + math.Exp(-v))
	}
	return out
}

func (Sigmoid) Invert(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = math.Log(v) - math.Log1p(-v)
	}
	return out
}

// LogAbsDetJacobian of the logistic function is log σ'(x), computed as
// −softplus(x) − softplus(−x) for numerical stability in both tails.
func (Sigmoid) LogAbsDetJacobian(x, _ []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = -softplus(v) - softplus(-v)
	}
	return out
}

// Affine is the map y = Loc + Scale·x. Scale must be non-zero for the map
// to be a bijection.
type Affine struct {
	Loc, Scale float64
}

func (t Affine) Apply(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = t.Loc + t.Scale*v
	}
	return out
}

func (t Affine) Invert(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = (v - t.Loc) / t.Scale
	}
	return out
}

// LogAbsDetJacobian of an affine map is the constant log|Scale|.
func (t Affine) LogAbsDetJacobian(x, _ []float64) []float64 {
	ld := math.Log(math.Abs(t.Scale))
	out := make([]float64, len(x))
	for i := range out {
		out[i] = ld
	}
	return out
}

// softplus computes log(1+e^x) without overflow for large x.
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

func clone(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
