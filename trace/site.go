// SPDX-License-Identifier: MIT

package trace

import (
	"errors"

	"github.com/katalvlaran/lvlprob/dist"
	"github.com/katalvlaran/lvlprob/transform"
)

var (
	// ErrNoKey indicates a sample site that needed fresh randomness while
	// no Seed handler was in scope.
	ErrNoKey = errors.New("trace: sample site requires a seeded model")
	// ErrDuplicateSite indicates two sites declared under one name within
	// a single model execution.
	ErrDuplicateSite = errors.New("trace: duplicate site name")
)

// Kind classifies a recorded site.
type Kind int

const (
	// KindSample is a random-variable statement.
	KindSample Kind = iota
	// KindParam is a learnable-parameter statement.
	KindParam
	// KindPlate is a batch-dimension declaration.
	KindPlate
)

// String names the kind for error messages.
func (k Kind) String() string {
	switch k {
	case KindSample:
		return "sample"
	case KindParam:
		return "param"
	case KindPlate:
		return "plate"
	default:
		return "unknown"
	}
}

// Site is one recorded statement of a model execution.
//
// Observed is meaningful only for sample sites. Intermediates is non-empty
// only when the site's distribution is a deterministic transform of a base
// distribution; Intermediates[0] is then the pre-transform (base-space)
// value and any further entries are composed-transform stage values.
// Constraint is set only for param sites. Scale multiplies the site's
// log-density contribution (1 when no scale handler was in scope).
type Site struct {
	Name          string
	Kind          Kind
	Dist          dist.Distribution
	Value         []float64
	Observed      bool
	Intermediates [][]float64
	Constraint    transform.Constraint
	SampleShape   int
	Scale         float64
}

// Trace is the ordered record of all sites produced by one model
// execution. Traces are created fresh on every run and never mutated
// afterwards.
type Trace struct {
	order []string
	sites map[string]*Site
}

func newTrace() *Trace {
	return &Trace{sites: make(map[string]*Site)}
}

func (t *Trace) add(s *Site) {
	t.order = append(t.order, s.Name)
	t.sites[s.Name] = s
}

func (t *Trace) has(name string) bool {
	_, ok := t.sites[name]
	return ok
}

// Len returns the number of recorded sites.
func (t *Trace) Len() int { return len(t.order) }

// Site looks a site up by name.
func (t *Trace) Site(name string) (*Site, bool) {
	s, ok := t.sites[name]
	return s, ok
}

// Sites returns all sites in declaration order. The returned slice is
// freshly allocated; the sites themselves are shared.
func (t *Trace) Sites() []*Site {
	out := make([]*Site, len(t.order))
	for i, name := range t.order {
		out[i] = t.sites[name]
	}
	return out
}
