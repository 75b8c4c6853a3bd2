package dist_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlprob/dist"
	"github.com/katalvlaran/lvlprob/rng"
	"github.com/katalvlaran/lvlprob/transform"
)

const tol = 1e-12

// TestNormal_LogProb checks the standard-normal density at zero and
// broadcasting of a scalar batch over a value vector.
func TestNormal_LogProb(t *testing.T) {
	d := dist.NewNormal([]float64{0}, []float64{1})
	lp := d.LogProb([]float64{0})
	require.InDelta(t, -0.5*math.Log(2*math.Pi), lp[0], tol)

	lp = d.LogProb([]float64{0, 1, -1})
	require.Len(t, lp, 3)
	require.InDelta(t, lp[1], lp[2], tol, "symmetric density must match at ±1")
}

// TestNormal_BatchParams checks per-element parameters.
func TestNormal_BatchParams(t *testing.T) {
	d := dist.NewNormal([]float64{0, 10}, []float64{1})
	require.Equal(t, 2, d.BatchLen())
	lp := d.LogProb([]float64{0, 10})
	require.InDelta(t, lp[0], lp[1], tol, "both values sit at their means")
}

// TestExponential_LogProbCDF checks density and CDF against closed forms.
func TestExponential_LogProbCDF(t *testing.T) {
	d := dist.NewExponential([]float64{2})
	lp := d.LogProb([]float64{1.5})
	require.InDelta(t, math.Log(2)-2*1.5, lp[0], tol)

	cdf := d.CDF([]float64{1.5})
	require.InDelta(t, 1-math.Exp(-3), cdf[0], tol)
}

// TestUniform_Support checks the interval support and flat density.
func TestUniform_Support(t *testing.T) {
	d := dist.NewUniform(-2, 2)
	require.Equal(t, transform.Interval(-2, 2), d.Support())
	lp := d.LogProb([]float64{0})
	require.InDelta(t, -math.Log(4), lp[0], tol)
}

// TestSample_Reproducible verifies that the same key replays the same
// draws and that sibling keys diverge.
func TestSample_Reproducible(t *testing.T) {
	d := dist.NewGamma([]float64{2}, []float64{1})
	a, b := rng.NewKey(1).Split()

	s1 := d.Sample(a.Source(), 5)
	s2 := d.Sample(a.Source(), 5)
	require.Equal(t, s1, s2, "same key must replay the same draws")

	s3 := d.Sample(b.Source(), 5)
	require.NotEqual(t, s1, s3, "sibling keys must give independent draws")

	for _, row := range s1 {
		require.True(t, d.Support().Contains(row), "gamma draw outside support")
	}
}

// TestHalfNormal_LogProbCDF checks the folded density and CDF against the
// underlying normal: f(x) = 2φ(x/σ)/σ and F(x) = 2Φ(x/σ) − 1 for x ≥ 0.
func TestHalfNormal_LogProbCDF(t *testing.T) {
	d := dist.NewHalfNormal([]float64{2})

	lp := d.LogProb([]float64{1.5})
	z := 1.5 / 2.0
	want := math.Log(2) - 0.5*z*z - math.Log(2) - 0.5*math.Log(2*math.Pi)
	require.InDelta(t, want, lp[0], tol)

	require.True(t, math.IsInf(d.LogProb([]float64{-0.1})[0], -1))

	cdf := d.CDF([]float64{0})
	require.InDelta(t, 0, cdf[0], tol)
	require.InDelta(t, 0, d.CDF([]float64{-1})[0], tol)

	// Censoring accepts it: positive support plus a CDF.
	_, err := dist.NewRightCensored(d, []bool{false})
	require.NoError(t, err)

	for _, row := range d.Sample(newSource(t), 10) {
		require.True(t, d.Support().Contains(row))
	}
}

// TestLogNormal_LogProb checks the push-forward density against the
// closed-form log-normal density.
func TestLogNormal_LogProb(t *testing.T) {
	mu, sigma := 0.3, 1.2
	d := dist.NewLogNormal([]float64{mu}, []float64{sigma})

	y := 2.5
	lp := d.LogProb([]float64{y})
	z := (math.Log(y) - mu) / sigma
	want := -0.5*z*z - math.Log(sigma) - 0.5*math.Log(2*math.Pi) - math.Log(y)
	require.InDelta(t, want, lp[0], 1e-9)
}

// TestTransformed_Intermediates verifies that sampling records the base
// draw and that density evaluation via intermediates matches the direct
// path.
func TestTransformed_Intermediates(t *testing.T) {
	d := dist.NewLogNormal([]float64{0}, []float64{1})

	y, inter := d.SampleWithIntermediates(rng.NewKey(9).Source())
	require.Len(t, inter, 1)
	require.InDelta(t, math.Log(y[0]), inter[0][0], tol, "inter[0] must be the base draw")

	direct := d.LogProb(y)
	reused := d.LogProbWithIntermediates(y, inter)
	require.InDelta(t, direct[0], reused[0], tol)
}

// TestTransformed_ComposedIntermediates exercises the staged path with a
// composed transform onto an interval.
func TestTransformed_ComposedIntermediates(t *testing.T) {
	tr, err := transform.BijectionFor(transform.Interval(1, 3))
	require.NoError(t, err)
	d := dist.NewTransformed(dist.NewNormal([]float64{0}, []float64{1}), tr, transform.Interval(1, 3))

	y, inter := d.SampleWithIntermediates(rng.NewKey(4).Source())
	require.Len(t, inter, 2, "base draw plus one compose stage")
	require.True(t, d.Support().Contains(y))

	direct := d.LogProb(y)
	reused := d.LogProbWithIntermediates(y, inter)
	require.InDelta(t, direct[0], reused[0], 1e-9)
}
