// SPDX-License-Identifier: MIT

package infer

import (
	"fmt"

	"github.com/katalvlaran/lvlprob/dist"
	"github.com/katalvlaran/lvlprob/trace"
	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

// resolution is the reparameterization of one trace: per latent site its
// constrained (base-space) value and the transform whose application maps
// unconstrained parameters onto it. hasTransformed records whether any
// site required base-space handling, which forces the model-re-executing
// constrain path.
type resolution struct {
	constrained    Params
	transforms     map[string]transform.Transform
	hasTransformed bool
}

// unconstrained inverts the constrained values through their transforms,
// yielding an initial unconstrained parameter vector.
func (r *resolution) unconstrained() Params {
	return TransformValues(r.transforms, r.constrained, true)
}

// resolveTrace selects, per eligible site, the constrained base value and
// the canonical bijection onto the site's support:
//
//   - non-observed sample site without intermediates: value as recorded,
//     bijection for the distribution's support;
//   - non-observed sample site with intermediates: the distribution is a
//     deterministic transform of a base distribution, so the base value
//     (first intermediate) and the bijection for the base support;
//   - param site (only when paramAsImproper): bijection for the declared
//     constraint; when that bijection is composed, only its first
//     constituent acts as the effective transform, and the recorded value
//     is pushed through the remaining constituents by inverting the whole
//     and re-applying the first.
func resolveTrace(tr *trace.Trace, paramAsImproper bool) (*resolution, error) {
	res := &resolution{
		constrained: make(Params),
		transforms:  make(map[string]transform.Transform),
	}

	for _, s := range tr.Sites() {
		switch {
		case s.Kind == trace.KindSample && !s.Observed:
			if err := res.addSample(s); err != nil {
				return nil, err
			}
		case s.Kind == trace.KindParam && paramAsImproper:
			if err := res.addParam(s); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (r *resolution) addSample(s *trace.Site) error {
	if hb, ok := s.Dist.(dist.HasBase); ok && len(s.Intermediates) > 0 {
		bt, err := transform.BijectionFor(hb.Base().Support())
		if err != nil {
			return fmt.Errorf("infer: site %q: %w", s.Name, err)
		}
		r.constrained[s.Name] = vec.Clone(s.Intermediates[0])
		r.transforms[s.Name] = bt
		r.hasTransformed = true
		return nil
	}

	bt, err := transform.BijectionFor(s.Dist.Support())
	if err != nil {
		return fmt.Errorf("infer: site %q: %w", s.Name, err)
	}
	r.constrained[s.Name] = vec.Clone(s.Value)
	r.transforms[s.Name] = bt
	return nil
}

func (r *resolution) addParam(s *trace.Site) error {
	c := s.Constraint
	if c == nil {
		c = transform.Real
	}
	t, err := transform.BijectionFor(c)
	if err != nil {
		return fmt.Errorf("infer: site %q: %w", s.Name, err)
	}

	if comp, ok := t.(*transform.Compose); ok {
		first := comp.Parts()[0]
		r.transforms[s.Name] = first
		r.constrained[s.Name] = first.Apply(comp.Invert(s.Value))
		r.hasTransformed = true
		return nil
	}

	r.transforms[s.Name] = t
	r.constrained[s.Name] = vec.Clone(s.Value)
	return nil
}
