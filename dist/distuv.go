// SPDX-License-Identifier: MIT

// Concrete univariate families, all thin batch wrappers over
// gonum/stat/distuv. Each wrapper stores its parameter vectors, resolves
// the batch length at construction, and instantiates the distuv value
// per element on demand.

package dist

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/lvlprob/transform"
	"github.com/katalvlaran/lvlprob/vec"
)

// Normal is the (batched) normal distribution N(mu, sigma²).
type Normal struct {
	mu, sigma []float64
	n         int
}

// NewNormal builds a normal distribution from location and scale vectors,
// broadcast under the scalar-or-equal rule. Panics on incompatible lengths.
func NewNormal(mu, sigma []float64) *Normal {
	return &Normal{mu: mu, sigma: sigma, n: mustBroadcast(len(mu), len(sigma))}
}

func (d *Normal) at(i int) distuv.Normal {
	return distuv.Normal{Mu: vec.At(d.mu, i), Sigma: vec.At(d.sigma, i)}
}

func (d *Normal) BatchLen() int                 { return d.n }
func (d *Normal) Support() transform.Constraint { return transform.Real }

func (d *Normal) LogProb(value []float64) []float64 {
	m := mustBroadcast(d.n, len(value))
	out := make([]float64, m)
	for i := range out {
		out[i] = d.at(i).LogProb(vec.At(value, i))
	}
	return out
}

func (d *Normal) CDF(value []float64) []float64 {
	m := mustBroadcast(d.n, len(value))
	out := make([]float64, m)
	for i := range out {
		out[i] = d.at(i).CDF(vec.At(value, i))
	}
	return out
}

func (d *Normal) Sample(src rand.Source, n int) [][]float64 {
	return sampleBatch(src, n, d.n, func(i int, src rand.Source) float64 {
		e := d.at(i)
		e.Src = src
		return e.Rand()
	})
}

// Exponential is the (batched) exponential distribution with the given
// rate vector.
type Exponential struct {
	rate []float64
}

// NewExponential builds an exponential distribution from a rate vector.
func NewExponential(rate []float64) *Exponential {
	return &Exponential{rate: rate}
}

func (d *Exponential) at(i int) distuv.Exponential {
	return distuv.Exponential{Rate: vec.At(d.rate, i)}
}

func (d *Exponential) BatchLen() int                 { return len(d.rate) }
func (d *Exponential) Support() transform.Constraint { return transform.Positive }

func (d *Exponential) LogProb(value []float64) []float64 {
	m := mustBroadcast(len(d.rate), len(value))
	out := make([]float64, m)
	for i := range out {
		out[i] = d.at(i).LogProb(vec.At(value, i))
	}
	return out
}

func (d *Exponential) CDF(value []float64) []float64 {
	m := mustBroadcast(len(d.rate), len(value))
	out := make([]float64, m)
	for i := range out {
		out[i] = d.at(i).CDF(vec.At(value, i))
	}
	return out
}

func (d *Exponential) Sample(src rand.Source, n int) [][]float64 {
	return sampleBatch(src, n, len(d.rate), func(i int, src rand.Source) float64 {
		e := d.at(i)
		e.Src = src
		return e.Rand()
	})
}

// Gamma is the (batched) gamma distribution with shape alpha and rate beta.
type Gamma struct {
	alpha, beta []float64
	n           int
}

// NewGamma builds a gamma distribution from shape and rate vectors,
// broadcast under the scalar-or-equal rule. Panics on incompatible lengths.
func NewGamma(alpha, beta []float64) *Gamma {
	return &Gamma{alpha: alpha, beta: beta, n: mustBroadcast(len(alpha), len(beta))}
}

func (d *Gamma) at(i int) distuv.Gamma {
	return distuv.Gamma{Alpha: vec.At(d.alpha, i), Beta: vec.At(d.beta, i)}
}

func (d *Gamma) BatchLen() int                 { return d.n }
func (d *Gamma) Support() transform.Constraint { return transform.Positive }

func (d *Gamma) LogProb(value []float64) []float64 {
	m := mustBroadcast(d.n, len(value))
	out := make([]float64, m)
	for i := range out {
		out[i] = d.at(i).LogProb(vec.At(value, i))
	}
	return out
}

func (d *Gamma) CDF(value []float64) []float64 {
	m := mustBroadcast(d.n, len(value))
	out := make([]float64, m)
	for i := range out {
		out[i] = d.at(i).CDF(vec.At(value, i))
	}
	return out
}

func (d *Gamma) Sample(src rand.Source, n int) [][]float64 {
	return sampleBatch(src, n, d.n, func(i int, src rand.Source) float64 {
		e := d.at(i)
		e.Src = src
		return e.Rand()
	})
}

// HalfNormal is the (batched) half-normal distribution: the absolute
// value of a centered normal with the given scale vector.
type HalfNormal struct {
	sigma []float64
}

// NewHalfNormal builds a half-normal distribution from a scale vector.
func NewHalfNormal(sigma []float64) *HalfNormal {
	return &HalfNormal{sigma: sigma}
}

func (d *HalfNormal) at(i int) distuv.Normal {
	return distuv.Normal{Mu: 0, Sigma: vec.At(d.sigma, i)}
}

func (d *HalfNormal) BatchLen() int                 { return len(d.sigma) }
func (d *HalfNormal) Support() transform.Constraint { return transform.Positive }

func (d *HalfNormal) LogProb(value []float64) []float64 {
	m := mustBroadcast(len(d.sigma), len(value))
	out := make([]float64, m)
	for i := range out {
		v := vec.At(value, i)
		if v < 0 {
			out[i] = math.Inf(-1)
			continue
		}
		out[i] = math.Ln2 + d.at(i).LogProb(v)
	}
	return out
}

func (d *HalfNormal) CDF(value []float64) []float64 {
	m := mustBroadcast(len(d.sigma), len(value))
	out := make([]float64, m)
	for i := range out {
		v := vec.At(value, i)
		if v < 0 {
			continue
		}
		out[i] = 2*d.at(i).CDF(v) - 1
	}
	return out
}

func (d *HalfNormal) Sample(src rand.Source, n int) [][]float64 {
	return sampleBatch(src, n, len(d.sigma), func(i int, src rand.Source) float64 {
		e := d.at(i)
		e.Src = src
		return math.Abs(e.Rand())
	})
}

// Uniform is the continuous uniform distribution on (Lo, Hi) with scalar
// bounds and batch length one.
type Uniform struct {
	lo, hi float64
}

// NewUniform builds the uniform distribution on (lo, hi). Panics when the
// interval is empty.
func NewUniform(lo, hi float64) *Uniform {
	if hi <= lo {
		panic("dist: uniform interval must satisfy lo < hi")
	}
	return &Uniform{lo: lo, hi: hi}
}

func (d *Uniform) dist() distuv.Uniform {
	return distuv.Uniform{Min: d.lo, Max: d.hi}
}

func (d *Uniform) BatchLen() int                 { return 1 }
func (d *Uniform) Support() transform.Constraint { return transform.Interval(d.lo, d.hi) }

func (d *Uniform) LogProb(value []float64) []float64 {
	out := make([]float64, len(value))
	for i, v := range value {
		out[i] = d.dist().LogProb(v)
	}
	return out
}

func (d *Uniform) CDF(value []float64) []float64 {
	out := make([]float64, len(value))
	for i, v := range value {
		out[i] = d.dist().CDF(v)
	}
	return out
}

func (d *Uniform) Sample(src rand.Source, n int) [][]float64 {
	return sampleBatch(src, n, 1, func(_ int, src rand.Source) float64 {
		e := d.dist()
		e.Src = src
		return e.Rand()
	})
}

// sampleBatch draws n variates of the given batch length, one element at a
// time in a fixed draw-major order so a given source always replays the
// same values.
func sampleBatch(src rand.Source, n, batch int, draw func(i int, src rand.Source) float64) [][]float64 {
	out := make([][]float64, n)
	for k := range out {
		row := make([]float64, batch)
		for i := range row {
			row[i] = draw(i, src)
		}
		out[k] = row
	}
	return out
}
