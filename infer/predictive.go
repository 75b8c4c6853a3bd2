// SPDX-License-Identifier: MIT

package infer

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvlprob/rng"
	"github.com/katalvlaran/lvlprob/trace"
)

// Samples is a batch of posterior draws: per site name, one row per
// sample (the leading dimension), each row a constrained-space vector.
type Samples map[string][][]float64

// Predictive runs the model forward once per posterior sample, each run
// conditioned on that sample's latent values and seeded with its own
// split sub-key, and collects the requested sites across the batch.
//
// With opts.ReturnSites nil, every non-plate site absent from the
// posterior samples is collected. The batch size is inferred from the
// samples; when opts.NumSamples is also set and disagrees, the inferred
// size wins and opts.Warnf is told. Without samples, opts.NumSamples must
// be set (ErrNoBatchSize otherwise).
//
// Sample runs are mutually independent and execute concurrently (bounded
// by opts.Parallel); results are ordered by sample index regardless of
// completion order.
func Predictive(key rng.Key, m trace.Model, samples Samples, opts *PredictiveOptions) (Samples, error) {
	if opts == nil {
		opts = DefaultPredictiveOptions()
	}
	batch, err := batchSize(samples, opts)
	if err != nil {
		return nil, err
	}
	keys := key.SplitN(batch)

	var want map[string]bool
	if opts.ReturnSites != nil {
		want = make(map[string]bool, len(opts.ReturnSites))
		for _, name := range opts.ReturnSites {
			want[name] = true
		}
	}

	rows := make([]map[string][]float64, batch)
	run := func(i int) error {
		tr, err := trace.Run(trace.Seed(trace.Condition(m, samples.row(i)), keys[i]))
		if err != nil {
			return err
		}
		res := make(map[string][]float64)
		for _, s := range tr.Sites() {
			switch {
			case want != nil:
				if want[s.Name] {
					res[s.Name] = s.Value
				}
			case s.Kind == trace.KindPlate:
			default:
				if _, inPosterior := samples[s.Name]; !inPosterior {
					res[s.Name] = s.Value
				}
			}
		}
		rows[i] = res
		return nil
	}
	if err := mapBatch(batch, opts.Parallel, run); err != nil {
		return nil, err
	}
	return gather(rows, batch), nil
}

// LogLikelihood substitutes each posterior sample's latent values into
// the model and collects the per-element log probability at every
// observed sample site. Execution follows the same independent,
// order-preserving batched map as Predictive.
func LogLikelihood(m trace.Model, samples Samples, opts *PredictiveOptions) (Samples, error) {
	if opts == nil {
		opts = DefaultPredictiveOptions()
	}
	batch, err := batchSize(samples, opts)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string][]float64, batch)
	run := func(i int) error {
		tr, err := trace.Run(trace.Substitute(m, samples.row(i)))
		if err != nil {
			return err
		}
		res := make(map[string][]float64)
		for _, s := range tr.Sites() {
			if s.Kind == trace.KindSample && s.Observed {
				res[s.Name] = s.Dist.LogProb(s.Value)
			}
		}
		rows[i] = res
		return nil
	}
	if err := mapBatch(batch, opts.Parallel, run); err != nil {
		return nil, err
	}
	return gather(rows, batch), nil
}

// row extracts the i-th draw of every site.
func (s Samples) row(i int) map[string][]float64 {
	out := make(map[string][]float64, len(s))
	for name, draws := range s {
		out[name] = draws[i]
	}
	return out
}

// batchSize resolves the leading batch dimension from the posterior
// samples, falling back to the explicit option and reporting conflicts.
func batchSize(samples Samples, opts *PredictiveOptions) (int, error) {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)

	batch := 0
	for _, name := range names {
		n := len(samples[name])
		switch {
		case batch == 0:
			batch = n
		case n != batch:
			return 0, ErrRaggedSamples
		}
	}

	if batch == 0 {
		if opts.NumSamples > 0 {
			return opts.NumSamples, nil
		}
		return 0, ErrNoBatchSize
	}
	if opts.NumSamples > 0 && opts.NumSamples != batch && opts.Warnf != nil {
		opts.Warnf("infer: posterior batch size %d differs from the requested %d samples; using %d",
			batch, opts.NumSamples, batch)
	}
	return batch, nil
}

// mapBatch applies fn to every index as an independent, order-preserving
// concurrent map. parallel bounds in-flight executions; 0 means no bound.
func mapBatch(n, parallel int, fn func(i int) error) error {
	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}

// gather transposes per-index result maps into per-site batches.
func gather(rows []map[string][]float64, batch int) Samples {
	out := make(Samples)
	for i, res := range rows {
		for name, v := range res {
			if out[name] == nil {
				out[name] = make([][]float64, batch)
			}
			out[name][i] = v
		}
	}
	return out
}
