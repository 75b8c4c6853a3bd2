package infer_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlprob/dist"
	"github.com/katalvlaran/lvlprob/infer"
	"github.com/katalvlaran/lvlprob/rng"
	"github.com/katalvlaran/lvlprob/trace"
	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

// logNormalLatentModel has a transformed latent feeding an exponential
// likelihood, forcing the model-re-executing constrain path.
func logNormalLatentModel(tc *trace.Ctx) error {
	x, err := tc.Sample("x", dist.NewLogNormal([]float64{0}, []float64{1}))
	if err != nil {
		return err
	}
	_, err = tc.Sample("obs", dist.NewExponential(x), trace.WithObs([]float64{1}))
	return err
}

// TestInitializeModel_ValidChains checks the happy path: every chain
// valid, finite energy at every starting point, positive constrained
// rates.
func TestInitializeModel_ValidChains(t *testing.T) {
	m := expModel([]float64{2})
	keys := rng.NewKey(1).SplitN(3)

	init, err := infer.InitializeModel(keys, m, nil)
	require.NoError(t, err)
	require.Len(t, init.Params, 3)
	require.Len(t, init.Valid, 3)

	for i, p := range init.Params {
		require.True(t, init.Valid[i])
		pe, err := init.Potential(p)
		require.NoError(t, err)
		require.True(t, vec.AllFinite([]float64{pe}))

		c, err := init.Constrain(p)
		require.NoError(t, err)
		require.Greater(t, c["rate"][0], 0.0)
	}
}

// TestInitializeModel_Reproducible checks identical keys give
// bit-identical per-chain parameters.
func TestInitializeModel_Reproducible(t *testing.T) {
	m := expModel([]float64{2})
	keys := rng.NewKey(2).SplitN(2)

	a, err := infer.InitializeModel(keys, m, nil)
	require.NoError(t, err)
	b, err := infer.InitializeModel(keys, m, nil)
	require.NoError(t, err)
	require.Equal(t, a.Params, b.Params)
	require.Equal(t, a.Valid, b.Valid)
}

// TestInitializeModel_ChainsIndependent checks a chain's result depends
// only on its own key, not on which other chains share the batch.
func TestInitializeModel_ChainsIndependent(t *testing.T) {
	m := expModel([]float64{2})
	keys := rng.NewKey(3).SplitN(3)

	a, err := infer.InitializeModel([]rng.Key{keys[0], keys[1]}, m, nil)
	require.NoError(t, err)
	b, err := infer.InitializeModel([]rng.Key{keys[0], keys[2]}, m, nil)
	require.NoError(t, err)

	require.Equal(t, a.Params[0], b.Params[0])
	require.NotEqual(t, a.Params[1], b.Params[1])
}

// TestInitializeModel_ConstrainTransformedSite checks the constrain
// function of a transformed latent pushes the unconstrained (base) value
// through the site's own transform.
func TestInitializeModel_ConstrainTransformedSite(t *testing.T) {
	keys := rng.NewKey(4).SplitN(1)
	init, err := infer.InitializeModel(keys, logNormalLatentModel, nil)
	require.NoError(t, err)

	u := init.Params[0]["x"][0]
	c, err := init.Constrain(init.Params[0])
	require.NoError(t, err)
	require.InDelta(t, math.Exp(u), c["x"][0], 1e-12)
}

// TestInitializeModel_PotentialMatchesDirect checks the closed-over
// potential agrees with a direct evaluation under the same transforms.
func TestInitializeModel_PotentialMatchesDirect(t *testing.T) {
	m := expModel([]float64{2})
	keys := rng.NewKey(5).SplitN(1)

	init, err := infer.InitializeModel(keys, m, nil)
	require.NoError(t, err)

	p := infer.Params{"rate": {0.3}}
	got, err := init.Potential(p)
	require.NoError(t, err)
	want, err := infer.PotentialEnergy(m, expTransforms(), p)
	require.NoError(t, err)
	require.InDelta(t, want, got, 1e-12)
}

// TestInitializeModel_ParamSitesJoin checks param sites always enter the
// parameter vector as improper-prior latents.
func TestInitializeModel_ParamSitesJoin(t *testing.T) {
	m := func(tc *trace.Ctx) error {
		w, err := tc.Param("w", []float64{0.5}, trace.WithConstraint(transform.Positive))
		if err != nil {
			return err
		}
		_, err = tc.Sample("obs", dist.NewExponential(w), trace.WithObs([]float64{1}))
		return err
	}

	init, err := infer.InitializeModel(rng.NewKey(6).SplitN(1), m, nil)
	require.NoError(t, err)
	require.Contains(t, init.Params[0], "w")

	c, err := init.Constrain(init.Params[0])
	require.NoError(t, err)
	require.Greater(t, c["w"][0], 0.0)
}

// TestInitializeModel_IntervalParam runs the composed-constraint path end
// to end: the param's effective transform is the first constituent of its
// interval bijection, and constraining lands back inside the interval.
func TestInitializeModel_IntervalParam(t *testing.T) {
	m := func(tc *trace.Ctx) error {
		w, err := tc.Param("w", []float64{4}, trace.WithConstraint(transform.Interval(2, 6)))
		if err != nil {
			return err
		}
		_, err = tc.Sample("obs", dist.NewNormal(w, []float64{1}), trace.WithObs([]float64{3}))
		return err
	}

	init, err := infer.InitializeModel(rng.NewKey(8).SplitN(1), m, nil)
	require.NoError(t, err)
	require.True(t, init.Valid[0])

	c, err := init.Constrain(init.Params[0])
	require.NoError(t, err)
	require.Greater(t, c["w"][0], 2.0)
	require.Less(t, c["w"][0], 6.0)
}

// TestInitializeModel_EagerExhaustedFails checks an unsatisfiable model
// aborts under eager evaluation and reports per-chain flags under staged.
func TestInitializeModel_EagerExhaustedFails(t *testing.T) {
	opts := infer.DefaultInitOptions()
	opts.MaxTries = 3

	_, err := infer.InitializeModel(rng.NewKey(7).SplitN(2), impossibleModel, opts)
	require.True(t, errors.Is(err, infer.ErrInitializationExhausted))

	opts.Mode = infer.EvalStaged
	init, err := infer.InitializeModel(rng.NewKey(7).SplitN(2), impossibleModel, opts)
	require.NoError(t, err)
	require.Equal(t, []bool{false, false}, init.Valid)
}

// TestInitializeModel_NoKeys rejects an empty chain set.
func TestInitializeModel_NoKeys(t *testing.T) {
	_, err := infer.InitializeModel(nil, expModel([]float64{2}), nil)
	require.True(t, errors.Is(err, infer.ErrNoKeys))
}
