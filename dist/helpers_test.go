package dist_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/katalvlaran/lvlprob/rng"
)

// newSource hands tests a deterministic randomness source.
func newSource(t *testing.T) rand.Source {
	t.Helper()
	return rng.NewKey(0xfeed).Source()
}
