package dist_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlprob/dist"
)

// TestRightCensored_Construction covers the two construction-time
// validation failures and the happy path.
func TestRightCensored_Construction(t *testing.T) {
	// Normal has a CDF but real support.
	_, err := dist.NewRightCensored(dist.NewNormal([]float64{0}, []float64{1}), []bool{true})
	require.True(t, errors.Is(err, dist.ErrNeedsPositiveSupport))

	// LogNormal has positive support but no CDF capability.
	_, err = dist.NewRightCensored(dist.NewLogNormal([]float64{0}, []float64{1}), []bool{true})
	require.True(t, errors.Is(err, dist.ErrNeedsCDF))

	// Event vector must broadcast against the base batch.
	_, err = dist.NewRightCensored(dist.NewExponential([]float64{1, 1, 1}), []bool{true, false})
	require.Error(t, err)

	d, err := dist.NewRightCensored(dist.NewExponential([]float64{1}), []bool{true, false})
	require.NoError(t, err)
	require.Equal(t, 2, d.BatchLen())
}

// TestRightCensored_ExponentialUnit pins the regression case for
// Exponential(rate=1) at value 2: both branches evaluate to −2, and only a
// differing value distinguishes the code paths.
func TestRightCensored_ExponentialUnit(t *testing.T) {
	base := dist.NewExponential([]float64{1})

	observed, err := dist.NewRightCensored(base, []bool{true})
	require.NoError(t, err)
	censored, err := dist.NewRightCensored(base, []bool{false})
	require.NoError(t, err)

	// Observed: log f(2) = log(1) − 2. Censored: log S(2) = log e^{−2}.
	require.InDelta(t, -2, observed.LogProb([]float64{2})[0], tol)
	require.InDelta(t, -2, censored.LogProb([]float64{2})[0], tol)
}

// TestRightCensored_PathsDiffer separates the two branches with a rate
// where density and survival disagree: f(x) = 2e^{−2x} vs S(x) = e^{−2x}.
func TestRightCensored_PathsDiffer(t *testing.T) {
	base := dist.NewExponential([]float64{2})

	observed, err := dist.NewRightCensored(base, []bool{true})
	require.NoError(t, err)
	censored, err := dist.NewRightCensored(base, []bool{false})
	require.NoError(t, err)

	x := []float64{1.5}
	require.InDelta(t, math.Log(2)-3, observed.LogProb(x)[0], tol)
	require.InDelta(t, -3, censored.LogProb(x)[0], tol)
}

// TestRightCensored_MixedBatch checks position-wise mixing within one
// batch: total log density is the position-wise sum of the two kinds of
// contribution.
func TestRightCensored_MixedBatch(t *testing.T) {
	base := dist.NewExponential([]float64{2})
	d, err := dist.NewRightCensored(base, []bool{true, false, true})
	require.NoError(t, err)

	lp := d.LogProb([]float64{1, 1, 2})
	require.InDelta(t, math.Log(2)-2, lp[0], tol) // observed at 1
	require.InDelta(t, -2, lp[1], tol)            // censored at 1
	require.InDelta(t, math.Log(2)-4, lp[2], tol) // observed at 2
}

// TestRightCensored_SamplesFromBase verifies predictive draws come from
// the uncensored base distribution's support.
func TestRightCensored_SamplesFromBase(t *testing.T) {
	base := dist.NewExponential([]float64{1})
	d, err := dist.NewRightCensored(base, []bool{false})
	require.NoError(t, err)

	rows := d.Sample(newSource(t), 10)
	for _, row := range rows {
		require.True(t, d.Support().Contains(row))
	}
}
