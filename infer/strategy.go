// SPDX-License-Identifier: MIT

package infer

import (
	"fmt"

	"github.com/katalvlaran/lvlprob/dist"
	"github.com/katalvlaran/lvlprob/rng"
	"github.com/katalvlaran/lvlprob/trace"
	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

// Strategy proposes a constrained-space starting value for one site,
// consuming only the given key. Returning a nil vector leaves the site
// untouched (observed sites, or param sites under a skipping wrapper).
// For sites whose distribution is a deterministic transform of a base
// distribution the returned value lives in base space.
type Strategy func(site *trace.Site, key rng.Key) ([]float64, error)

// withoutParams wraps a strategy so param sites keep their existing
// values instead of being treated as improper-prior latents.
func withoutParams(s Strategy) Strategy {
	return func(site *trace.Site, key rng.Key) ([]float64, error) {
		if site.Kind == trace.KindParam {
			return nil, nil
		}
		return s(site, key)
	}
}

// InitToMedian initializes each latent site to the element-wise median of
// numSamples independent prior draws (base-distribution draws for
// transformed priors). numSamples <= 0 selects the default of 15. Param
// sites take their recorded base value.
func InitToMedian(numSamples int) Strategy {
	if numSamples <= 0 {
		numSamples = DefaultMedianSamples
	}
	return func(site *trace.Site, key rng.Key) ([]float64, error) {
		switch {
		case site.Kind == trace.KindSample && !site.Observed:
			rows := drawRows(baseOf(site.Dist), key, site.SampleShape, numSamples)
			return vec.Median(rows)
		case site.Kind == trace.KindParam:
			return paramBaseValue(site)
		}
		return nil, nil
	}
}

// InitToPrior initializes each latent site to a single prior draw.
func InitToPrior() Strategy {
	return InitToMedian(1)
}

// InitToUniform initializes each latent site to a random point drawn
// uniformly in [−radius, radius] of the unconstrained space, mapped into
// the site's support through its canonical bijection. Radius 0 degrades
// to the bijection's value at the origin, an arbitrary feasible point
// independent of the distribution's parameters.
func InitToUniform(radius float64) Strategy {
	return func(site *trace.Site, key rng.Key) ([]float64, error) {
		switch {
		case site.Kind == trace.KindSample && !site.Observed:
			fn := baseOf(site.Dist)
			bt, err := transform.BijectionFor(fn.Support())
			if err != nil {
				return nil, fmt.Errorf("infer: site %q: %w", site.Name, err)
			}
			// One prior draw establishes the value shape; an independent
			// key then fills the unconstrained box.
			kShape, kBox := key.Split()
			shape := drawRows(fn, kShape, site.SampleShape, 1)[0]
			return bt.Apply(uniformBox(kBox, len(shape), radius)), nil

		case site.Kind == trace.KindParam:
			c := site.Constraint
			if c == nil {
				c = transform.Real
			}
			t, err := transform.BijectionFor(c)
			if err != nil {
				return nil, fmt.Errorf("infer: site %q: %w", site.Name, err)
			}
			u := uniformBox(key, len(site.Value), radius)
			if comp, ok := t.(*transform.Compose); ok {
				return comp.Parts()[0].Apply(u), nil
			}
			return t.Apply(u), nil
		}
		return nil, nil
	}
}

// InitToFeasible initializes each latent site to an arbitrary feasible
// point of its support, ignoring distribution parameters.
func InitToFeasible() Strategy {
	return InitToUniform(0)
}

// InitToValue initializes sites named in values to the given constrained
// value (inverted into base space for transformed priors) and falls back
// to InitToUniform with the default radius for every other site.
func InitToValue(values Params) Strategy {
	fallback := InitToUniform(DefaultUniformRadius)
	return func(site *trace.Site, key rng.Key) ([]float64, error) {
		switch {
		case site.Kind == trace.KindSample && !site.Observed:
			v, ok := values[site.Name]
			if !ok {
				return fallback(site, key)
			}
			if hb, isTransformed := site.Dist.(dist.HasBase); isTransformed {
				return hb.BaseTransform().Invert(v), nil
			}
			return vec.Clone(v), nil
		case site.Kind == trace.KindParam:
			return paramBaseValue(site)
		}
		return nil, nil
	}
}

// baseOf unwraps a transformed distribution to its base; plain
// distributions pass through.
func baseOf(d dist.Distribution) dist.Distribution {
	if hb, ok := d.(dist.HasBase); ok {
		return hb.Base()
	}
	return d
}

// paramBaseValue recovers the base value of a param site: the recorded
// value pushed through the inverse of its constraint's bijection and back
// through the first constituent when that bijection is composed.
func paramBaseValue(site *trace.Site) ([]float64, error) {
	c := site.Constraint
	if c == nil {
		c = transform.Real
	}
	t, err := transform.BijectionFor(c)
	if err != nil {
		return nil, fmt.Errorf("infer: site %q: %w", site.Name, err)
	}
	if comp, ok := t.(*transform.Compose); ok {
		return comp.Parts()[0].Apply(comp.Invert(site.Value)), nil
	}
	return vec.Clone(site.Value), nil
}

// drawRows draws n independent values of the site's full shape: each row
// concatenates sampleShape draws of batch length.
func drawRows(d dist.Distribution, key rng.Key, sampleShape, n int) [][]float64 {
	if sampleShape <= 0 {
		sampleShape = 1
	}
	src := key.Source()
	flat := d.Sample(src, n*sampleShape)

	rows := make([][]float64, n)
	for i := range rows {
		var row []float64
		for k := 0; k < sampleShape; k++ {
			row = append(row, flat[i*sampleShape+k]...)
		}
		rows[i] = row
	}
	return rows
}

// uniformBox draws n values uniformly in [−radius, radius]; radius 0
// returns the origin.
func uniformBox(key rng.Key, n int, radius float64) []float64 {
	if radius == 0 {
		return make([]float64, n)
	}
	src := key.Source()
	rows := dist.NewUniform(-radius, radius).Sample(src, n)

	out := make([]float64, n)
	for i, r := range rows {
		out[i] = r[0]
	}
	return out
}
