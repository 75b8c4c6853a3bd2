// SPDX-License-Identifier: MIT

package infer

import (
	"fmt"

	"github.com/katalvlaran/lvlprob/dist"
	"github.com/katalvlaran/lvlprob/trace"
	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

// LogDensity computes the joint log density of the model under the given
// site values and returns it together with the substituted execution
// trace (callers need the trace for per-site transform bookkeeping).
//
// With skipTransforms false, params are substituted as constrained site
// values and every sample site contributes its own distribution's log
// probability. With skipTransforms true, params are substituted in base
// space and sites whose distribution is a deterministic transform of a
// base distribution contribute the base log probability at their recorded
// pre-transform value instead — the form potential-energy evaluation
// needs, since the Jacobian correction is accounted for separately.
//
// Each site's log probability is summed over all non-batch dimensions and
// multiplied by the site's scale before accumulation.
func LogDensity(m trace.Model, params Params, skipTransforms bool) (float64, *trace.Trace, error) {
	var wrapped trace.Model
	if skipTransforms {
		wrapped = trace.SubstituteBase(m, params)
	} else {
		wrapped = trace.Substitute(m, params)
	}
	tr, err := trace.Run(wrapped)
	if err != nil {
		return 0, nil, err
	}

	total := 0.0
	for _, s := range tr.Sites() {
		if s.Kind != trace.KindSample {
			continue
		}
		lp, err := siteLogProb(s, skipTransforms)
		if err != nil {
			return 0, nil, err
		}
		total += s.Scale * vec.Sum(lp)
	}
	return total, tr, nil
}

// siteLogProb evaluates one sample site's per-element log probability,
// reusing recorded intermediates where they exist.
func siteLogProb(s *trace.Site, skipTransforms bool) ([]float64, error) {
	if len(s.Intermediates) == 0 {
		return s.Dist.LogProb(s.Value), nil
	}

	if skipTransforms {
		hb, ok := s.Dist.(dist.HasBase)
		if !ok {
			return nil, fmt.Errorf("infer: site %q records intermediates without a base distribution", s.Name)
		}
		return hb.Base().LogProb(s.Intermediates[0]), nil
	}

	if ilp, ok := s.Dist.(dist.IntermediateLogProber); ok {
		return ilp.LogProbWithIntermediates(s.Value, s.Intermediates), nil
	}
	return s.Dist.LogProb(s.Value), nil
}

// TransformValues applies (or, with invert, inverts) the named transforms
// to the matching entries of params, passing unmatched entries through
// unchanged. Transforms and params align by site name.
func TransformValues(transforms map[string]transform.Transform, params Params, invert bool) Params {
	out := make(Params, len(params))
	for name, v := range params {
		t, ok := transforms[name]
		switch {
		case !ok:
			out[name] = vec.Clone(v)
		case invert:
			out[name] = t.Invert(v)
		default:
			out[name] = t.Apply(v)
		}
	}
	return out
}

// ConstrainValues maps unconstrained parameters to the value at each
// matching latent site of the model. The transforms take the parameters
// to base space; the model is then re-executed under base substitution so
// that sites whose distribution is a deterministic transform of a base
// distribution report their final, pushed-forward value. For models
// without such sites, TransformValues alone is the cheaper equivalent.
func ConstrainValues(m trace.Model, invTransforms map[string]transform.Transform, params Params) (Params, error) {
	constrained := TransformValues(invTransforms, params, false)
	tr, err := trace.Run(trace.SubstituteBase(m, constrained))
	if err != nil {
		return nil, err
	}

	out := make(Params, len(params))
	for name := range params {
		if s, ok := tr.Site(name); ok {
			out[name] = s.Value
		}
	}
	return out, nil
}
