// SPDX-License-Identifier: MIT

package trace

import (
	"github.com/katalvlaran/lvlprob/rng"
)

// Model is a replayable probabilistic program: a function that declares
// its random sites against the interpreter context. Model arguments and
// data are closed over; re-execution under identical handlers must produce
// an identical trace.
type Model func(*Ctx) error

// Run executes a model with a fresh context and returns its trace.
func Run(m Model) (*Trace, error) {
	tc := &Ctx{tr: newTrace()}
	if err := m(tc); err != nil {
		return nil, err
	}
	return tc.tr, nil
}

// handler intercepts site declarations while in scope. Implementations
// set request fields at most once and must leave fields set by an outer
// handler untouched.
type handler interface {
	onSite(req *request) error
}

// SubstituteFunc computes a substitution for one provisional site. The
// site carries its name, kind, distribution, constraint and declared
// shape; its value is not yet resolved (params carry their default).
// Returning a nil vector leaves the site unsubstituted. For sample sites
// whose distribution is a transform of a base distribution the returned
// vector is interpreted in base space.
type SubstituteFunc func(site *Site) ([]float64, error)

// Seed scopes a randomness key over m: every sample site that needs a
// draw receives its own child key, split in declaration order. The key a
// site receives depends only on the trace structure before it, so an
// identical key replays identical draws.
func Seed(m Model, key rng.Key) Model {
	return func(tc *Ctx) error {
		tc.push(&seedHandler{key: key})
		defer tc.pop()
		return m(tc)
	}
}

type seedHandler struct {
	key rng.Key
}

func (h *seedHandler) onSite(req *request) error {
	if req.site.Kind != KindSample {
		return nil
	}
	// Burn a split for every sample site, substituted or not, so key
	// assignment depends only on site order.
	next, sub := h.key.Split()
	h.key = next
	if req.key == nil {
		req.key = &sub
	}
	return nil
}

// Substitute scopes constrained-space value substitutions over m: sample
// and param sites named in values take the given value instead of
// sampling or their default.
func Substitute(m Model, values map[string][]float64) Model {
	return func(tc *Ctx) error {
		tc.push(&substituteHandler{values: values})
		defer tc.pop()
		return m(tc)
	}
}

type substituteHandler struct {
	values map[string][]float64
}

func (h *substituteHandler) onSite(req *request) error {
	if req.site.Kind == KindPlate {
		return nil
	}
	if v, ok := h.values[req.site.Name]; ok && req.value == nil && req.baseValue == nil {
		req.value = v
	}
	return nil
}

// SubstituteBase scopes base-space value substitutions over m: for sites
// whose distribution is a deterministic transform of a base distribution
// the given value is pushed forward through the transform (recording
// intermediates); for param sites whose constraint bijection is composed,
// the value is the first constituent's output and the remaining
// constituents complete it. All other sites behave like Substitute.
func SubstituteBase(m Model, values map[string][]float64) Model {
	return func(tc *Ctx) error {
		tc.push(&substituteBaseHandler{values: values})
		defer tc.pop()
		return m(tc)
	}
}

type substituteBaseHandler struct {
	values map[string][]float64
}

func (h *substituteBaseHandler) onSite(req *request) error {
	v, ok := h.values[req.site.Name]
	if !ok {
		return nil
	}
	switch req.site.Kind {
	case KindSample:
		if req.value == nil && req.baseValue == nil {
			req.baseValue = v
		}
	case KindParam:
		if req.value == nil {
			req.value = pushForwardParam(req.site.Constraint, v)
		}
	}
	return nil
}

// SubstituteFn scopes per-site computed substitutions over m. fn is
// consulted for every sample and param site; base-space interpretation
// follows SubstituteBase.
func SubstituteFn(m Model, fn SubstituteFunc) Model {
	return func(tc *Ctx) error {
		tc.push(&substituteFnHandler{fn: fn})
		defer tc.pop()
		return m(tc)
	}
}

type substituteFnHandler struct {
	fn SubstituteFunc
}

func (h *substituteFnHandler) onSite(req *request) error {
	if req.site.Kind == KindPlate {
		return nil
	}
	if req.value != nil || req.baseValue != nil || req.hasObserved {
		return nil
	}
	v, err := h.fn(req.site)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if req.site.Kind == KindSample {
		req.baseValue = v
	} else {
		req.value = pushForwardParam(req.site.Constraint, v)
	}
	return nil
}

// Condition scopes observations over m: sample sites named in values take
// the given value and are marked observed.
func Condition(m Model, values map[string][]float64) Model {
	return func(tc *Ctx) error {
		tc.push(&conditionHandler{values: values})
		defer tc.pop()
		return m(tc)
	}
}

type conditionHandler struct {
	values map[string][]float64
}

func (h *conditionHandler) onSite(req *request) error {
	if req.site.Kind != KindSample || req.hasObserved {
		return nil
	}
	if v, ok := h.values[req.site.Name]; ok {
		req.observed = v
		req.hasObserved = true
	}
	return nil
}

// Block executes m without recording its sites into the trace. Values are
// still computed and returned to the model, so blocked sub-computations
// (for example initialization draws) consume randomness without leaving
// site records behind.
func Block(m Model) Model {
	return func(tc *Ctx) error {
		tc.push(blockHandler{})
		defer tc.pop()
		return m(tc)
	}
}

type blockHandler struct{}

func (blockHandler) onSite(req *request) error {
	req.block = true
	return nil
}

// WithScale multiplies the log-density contribution of every site
// declared inside m by s. Nested scales multiply.
func WithScale(m Model, s float64) Model {
	return func(tc *Ctx) error {
		tc.push(scaleHandler{s: s})
		defer tc.pop()
		return m(tc)
	}
}

type scaleHandler struct {
	s float64
}

func (h scaleHandler) onSite(req *request) error {
	req.scale *= h.s
	return nil
}
