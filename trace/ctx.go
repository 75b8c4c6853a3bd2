// SPDX-License-Identifier: MIT

package trace

import (
	"fmt"

	"github.com/katalvlaran/lvlprob/dist"
	"github.com/katalvlaran/lvlprob/rng"
	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

// Ctx is the interpreter context threaded through one model execution. It
// carries the trace under construction and the stack of scoped handlers
// pushed by the decorators in handlers.go. Models receive it as their only
// argument and declare sites through Sample, Param and Plate.
type Ctx struct {
	tr       *Trace
	handlers []handler // outermost first
}

func (tc *Ctx) push(h handler) {
	tc.handlers = append(tc.handlers, h)
}

func (tc *Ctx) pop() {
	tc.handlers = tc.handlers[:len(tc.handlers)-1]
}

// request is the mutable message a site declaration passes through the
// handler stack before being resolved into a recorded Site. Handlers set
// fields at most once; the outermost handler wins.
type request struct {
	site        *Site
	value       []float64 // constrained-space substitution
	baseValue   []float64 // base-space substitution
	observed    []float64
	hasObserved bool
	key         *rng.Key
	block       bool
	scale       float64
}

func (tc *Ctx) dispatch(req *request) error {
	for _, h := range tc.handlers {
		if err := h.onSite(req); err != nil {
			return err
		}
	}
	return nil
}

// SampleOption configures one Sample declaration.
type SampleOption func(*request)

// WithObs marks the site observed with the given value. Observed sites
// never consume randomness.
func WithObs(value []float64) SampleOption {
	return func(req *request) {
		req.observed = value
		req.hasObserved = true
	}
}

// WithSampleShape declares the number of independent draws making up the
// site's value; the value is their concatenation. Default 1.
func WithSampleShape(n int) SampleOption {
	return func(req *request) {
		req.site.SampleShape = n
	}
}

// ParamOption configures one Param declaration.
type ParamOption func(*request)

// WithConstraint declares the support constraint of a param site.
// Default is the unrestricted real line.
func WithConstraint(c transform.Constraint) ParamOption {
	return func(req *request) {
		req.site.Constraint = c
	}
}

// Sample declares a random site. Unless a handler supplies a value (via
// substitution, conditioning or an observation), the site is sampled from
// d using the key provided by the innermost Seed handler in scope.
// Returns the site's value in constrained space.
func (tc *Ctx) Sample(name string, d dist.Distribution, opts ...SampleOption) ([]float64, error) {
	if tc.tr.has(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSite, name)
	}

	site := &Site{Name: name, Kind: KindSample, Dist: d, SampleShape: 1, Scale: 1}
	req := &request{site: site, scale: 1}
	for _, opt := range opts {
		opt(req)
	}
	if err := tc.dispatch(req); err != nil {
		return nil, fmt.Errorf("trace: site %q: %w", name, err)
	}

	switch {
	case req.hasObserved:
		site.Value = req.observed
		site.Observed = true

	case req.value != nil:
		// Constrained-space substitution takes the value as-is; the base
		// draw is unknown, so no intermediates are recorded.
		site.Value = req.value

	case req.baseValue != nil:
		site.Value, site.Intermediates = pushForward(d, req.baseValue)

	default:
		if req.key == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoKey, name)
		}
		site.Value, site.Intermediates = drawSite(d, *req.key, site.SampleShape)
	}

	site.Scale = req.scale
	if !req.block {
		tc.tr.add(site)
	}
	return site.Value, nil
}

// Param declares a learnable parameter with the given current value.
// Handlers may substitute the value; the recorded constraint defaults to
// the unrestricted real line.
func (tc *Ctx) Param(name string, value []float64, opts ...ParamOption) ([]float64, error) {
	if tc.tr.has(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSite, name)
	}

	site := &Site{
		Name:        name,
		Kind:        KindParam,
		Value:       vec.Clone(value),
		Constraint:  transform.Real,
		SampleShape: 1,
		Scale:       1,
	}
	req := &request{site: site, scale: 1}
	for _, opt := range opts {
		opt(req)
	}
	if err := tc.dispatch(req); err != nil {
		return nil, fmt.Errorf("trace: site %q: %w", name, err)
	}

	if req.value != nil {
		site.Value = req.value
	}
	site.Scale = req.scale
	if !req.block {
		tc.tr.add(site)
	}
	return site.Value, nil
}

// Plate declares a batch dimension of the given size and returns its
// indices. Plates carry no value; they exist so batch structure appears in
// the trace.
func (tc *Ctx) Plate(name string, size int) ([]int, error) {
	if tc.tr.has(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSite, name)
	}

	site := &Site{Name: name, Kind: KindPlate, SampleShape: size, Scale: 1}
	req := &request{site: site, scale: 1}
	if err := tc.dispatch(req); err != nil {
		return nil, fmt.Errorf("trace: site %q: %w", name, err)
	}
	if !req.block {
		tc.tr.add(site)
	}

	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	return idx, nil
}

// pushForward maps a base-space value onto the distribution's support,
// recording the pre-transform stages as intermediates. For distributions
// without a base transform the value is already in constrained space.
func pushForward(d dist.Distribution, base []float64) ([]float64, [][]float64) {
	hb, ok := d.(dist.HasBase)
	if !ok {
		return base, nil
	}
	tr := hb.BaseTransform()
	if comp, isComp := tr.(*transform.Compose); isComp {
		y, stages := comp.ApplyWithIntermediates(base)
		return y, append([][]float64{base}, stages...)
	}
	return tr.Apply(base), [][]float64{base}
}

// pushForwardParam maps a base-space param value onto its constraint's
// support. When the constraint's canonical bijection is composed, the
// value is the first constituent's output and the remaining constituents
// complete it; otherwise base space and value space coincide.
func pushForwardParam(c transform.Constraint, base []float64) []float64 {
	if c == nil {
		return base
	}
	t, err := transform.BijectionFor(c)
	if err != nil {
		return base
	}
	comp, ok := t.(*transform.Compose)
	if !ok {
		return base
	}
	cur := base
	for _, p := range comp.Parts()[1:] {
		cur = p.Apply(cur)
	}
	return cur
}

// drawSite samples a site value of the given sample shape, recording
// intermediates when the distribution supports them. Draws concatenate in
// a fixed order from a single per-site source, so a given key replays the
// identical value.
func drawSite(d dist.Distribution, key rng.Key, shape int) ([]float64, [][]float64) {
	src := key.Source()

	is, ok := d.(dist.IntermediateSampler)
	if !ok {
		rows := d.Sample(src, shape)
		return concat(rows), nil
	}

	var value []float64
	var inter [][]float64
	for k := 0; k < shape; k++ {
		v, stages := is.SampleWithIntermediates(src)
		value = append(value, v...)
		if inter == nil {
			inter = make([][]float64, len(stages))
		}
		for i, st := range stages {
			inter[i] = append(inter[i], st...)
		}
	}
	return value, inter
}

func concat(rows [][]float64) []float64 {
	if len(rows) == 1 {
		return rows[0]
	}
	var out []float64
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
