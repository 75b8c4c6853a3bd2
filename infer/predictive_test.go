package infer_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlprob/dist"
	"github.com/katalvlaran/lvlprob/infer"
	"github.com/katalvlaran/lvlprob/rng"
	"github.com/katalvlaran/lvlprob/trace"
)

// generativeModel is expModel without the observation fixed: both sites
// are latent, so predictive runs can draw y given a conditioned rate.
func generativeModel(tc *trace.Ctx) error {
	rate, err := tc.Sample("rate", dist.NewExponential([]float64{1}))
	if err != nil {
		return err
	}
	_, err = tc.Sample("y", dist.NewExponential(rate))
	return err
}

// TestPredictive_MatchesSingleConditionedRun checks a one-sample batch
// reproduces a direct conditioned, seeded run under the same split key.
func TestPredictive_MatchesSingleConditionedRun(t *testing.T) {
	key := rng.NewKey(1)
	samples := infer.Samples{"rate": {{0.5}}}

	out, err := infer.Predictive(key, generativeModel, samples, nil)
	require.NoError(t, err)
	require.Contains(t, out, "y")
	require.NotContains(t, out, "rate")
	require.Len(t, out["y"], 1)

	sub := key.SplitN(1)[0]
	tr, err := trace.Run(trace.Seed(trace.Condition(generativeModel, map[string][]float64{"rate": {0.5}}), sub))
	require.NoError(t, err)
	s, _ := tr.Site("y")
	require.Equal(t, s.Value, out["y"][0])
}

// TestPredictive_BatchAndDeterminism checks per-sample keys: a two-sample
// batch replays bit-identically and its rows differ from each other.
func TestPredictive_BatchAndDeterminism(t *testing.T) {
	samples := infer.Samples{"rate": {{0.5}, {0.5}}}

	a, err := infer.Predictive(rng.NewKey(2), generativeModel, samples, nil)
	require.NoError(t, err)
	b, err := infer.Predictive(rng.NewKey(2), generativeModel, samples, nil)
	require.NoError(t, err)
	require.Equal(t, a, b)

	require.Len(t, a["y"], 2)
	require.NotEqual(t, a["y"][0], a["y"][1])
}

// TestPredictive_ReturnSites restricts collection to the named sites.
func TestPredictive_ReturnSites(t *testing.T) {
	opts := infer.DefaultPredictiveOptions()
	opts.ReturnSites = []string{"rate"}

	out, err := infer.Predictive(rng.NewKey(3), generativeModel, infer.Samples{"rate": {{0.5}, {2}}}, opts)
	require.NoError(t, err)
	require.Contains(t, out, "rate")
	require.NotContains(t, out, "y")
	require.Equal(t, [][]float64{{0.5}, {2}}, out["rate"])
}

// TestPredictive_PriorPredictive checks the no-samples path draws
// NumSamples fresh joint realizations.
func TestPredictive_PriorPredictive(t *testing.T) {
	opts := infer.DefaultPredictiveOptions()
	opts.NumSamples = 4

	out, err := infer.Predictive(rng.NewKey(4), generativeModel, nil, opts)
	require.NoError(t, err)
	require.Len(t, out["rate"], 4)
	require.Len(t, out["y"], 4)
}

// TestPredictive_NoBatchSize rejects calls with neither samples nor an
// explicit count.
func TestPredictive_NoBatchSize(t *testing.T) {
	_, err := infer.Predictive(rng.NewKey(5), generativeModel, nil, nil)
	require.True(t, errors.Is(err, infer.ErrNoBatchSize))
}

// TestPredictive_RaggedSamples rejects posterior batches of unequal
// leading size.
func TestPredictive_RaggedSamples(t *testing.T) {
	samples := infer.Samples{"rate": {{0.5}}, "y": {{1}, {2}}}
	_, err := infer.Predictive(rng.NewKey(6), generativeModel, samples, nil)
	require.True(t, errors.Is(err, infer.ErrRaggedSamples))
}

// TestPredictive_BatchMismatchWarns checks the inferred batch size wins
// over a disagreeing explicit count, with a warning.
func TestPredictive_BatchMismatchWarns(t *testing.T) {
	var warned string
	opts := infer.DefaultPredictiveOptions()
	opts.NumSamples = 5
	opts.Warnf = func(format string, args ...any) {
		warned = fmt.Sprintf(format, args...)
	}

	out, err := infer.Predictive(rng.NewKey(7), generativeModel, infer.Samples{"rate": {{0.5}, {1}, {2}}}, opts)
	require.NoError(t, err)
	require.Len(t, out["y"], 3)
	require.NotEmpty(t, warned)
	require.Contains(t, warned, "3")
	require.Contains(t, warned, "5")
}

// TestPredictive_ParallelMatchesSerial checks bounded concurrency leaves
// the results byte for byte unchanged.
func TestPredictive_ParallelMatchesSerial(t *testing.T) {
	samples := infer.Samples{"rate": {{0.5}, {1}, {2}, {4}}}

	serial, err := infer.Predictive(rng.NewKey(8), generativeModel, samples, nil)
	require.NoError(t, err)

	opts := infer.DefaultPredictiveOptions()
	opts.Parallel = 2
	parallel, err := infer.Predictive(rng.NewKey(8), generativeModel, samples, opts)
	require.NoError(t, err)
	require.Equal(t, serial, parallel)
}

// TestLogLikelihood_HandComputed pins the observed-site log likelihood of
// the exponential model: log p(2 | r) = log r − 2r per posterior draw.
func TestLogLikelihood_HandComputed(t *testing.T) {
	m := expModel([]float64{2})
	samples := infer.Samples{"rate": {{0.5}, {1}}}

	out, err := infer.LogLikelihood(m, samples, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out["obs"], 2)
	require.InDelta(t, math.Log(0.5)-1, out["obs"][0][0], 1e-12)
	require.InDelta(t, -2.0, out["obs"][1][0], 1e-12)
}

// TestLogLikelihood_OnlyObservedSites checks latent sites never appear in
// the output even when substituted.
func TestLogLikelihood_OnlyObservedSites(t *testing.T) {
	m := expModel([]float64{2})
	out, err := infer.LogLikelihood(m, infer.Samples{"rate": {{0.5}}}, nil)
	require.NoError(t, err)
	require.NotContains(t, out, "rate")
}
