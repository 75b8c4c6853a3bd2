// SPDX-License-Identifier: MIT

package transform

// Compose chains two or more transforms into one bijection. Parts are
// ordered with the transform nearest the unconstrained side first, so
// Apply runs parts front to back and Invert runs them back to front.
type Compose struct {
	parts []Transform
}

// NewCompose builds a composed transform from its constituents, nearest
// the unconstrained side first. At least two parts are expected; a single
// part would compose to itself.
func NewCompose(parts ...Transform) *Compose {
	return &Compose{parts: parts}
}

// Parts returns the constituent transforms, nearest the unconstrained
// side first. The returned slice must not be mutated.
func (c *Compose) Parts() []Transform {
	return c.parts
}

// Apply maps unconstrained x through every part in order.
func (c *Compose) Apply(x []float64) []float64 {
	y, _ := c.ApplyWithIntermediates(x)
	return y
}

// ApplyWithIntermediates maps x through every part, additionally returning
// the values at each internal stage boundary: inter[i] is the output of
// part i for i < len(parts)-1. Callers pass these back into
// LogAbsDetJacobianWithIntermediates to avoid recomputing the forward pass.
func (c *Compose) ApplyWithIntermediates(x []float64) ([]float64, [][]float64) {
	inter := make([][]float64, 0, len(c.parts)-1)
	cur := x
	for i, p := range c.parts {
		cur = p.Apply(cur)
		if i < len(c.parts)-1 {
			inter = append(inter, cur)
		}
	}
	return cur, inter
}

// Invert maps constrained y back through every part in reverse order.
func (c *Compose) Invert(y []float64) []float64 {
	cur := y
	for i := len(c.parts) - 1; i >= 0; i-- {
		cur = c.parts[i].Invert(cur)
	}
	return cur
}

// LogAbsDetJacobian sums the per-part log-Jacobians along the forward
// chain from x to y, recomputing the stage values.
func (c *Compose) LogAbsDetJacobian(x, y []float64) []float64 {
	_, inter := c.ApplyWithIntermediates(x)
	return c.LogAbsDetJacobianWithIntermediates(x, y, inter)
}

// LogAbsDetJacobianWithIntermediates sums the per-part log-Jacobians using
// previously recorded stage values instead of recomputing them.
func (c *Compose) LogAbsDetJacobianWithIntermediates(x, y []float64, inter [][]float64) []float64 {
	total := make([]float64, len(x))
	cur := x
	for i, p := range c.parts {
		var next []float64
		if i < len(c.parts)-1 {
			next = inter[i]
		} else {
			next = y
		}
		ld := p.LogAbsDetJacobian(cur, next)
		for j := range total {
			total[j] += ld[j]
		}
		cur = next
	}
	return total
}
