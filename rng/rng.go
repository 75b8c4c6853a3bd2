// SPDX-License-Identifier: MIT

package rng

import (
	"golang.org/x/exp/rand"
)

// SplitMix64 constants. The golden-gamma increment guarantees full-period
// traversal of the 64-bit state space; the two multipliers are the
// finalizer constants from Steele, Lea & Flood (2014).
const (
	goldenGamma = 0x9e3779b97f4a7c15
	mixMul1     = 0xbf58476d1ce4e5b9
	mixMul2     = 0x94d049bb133111eb
)

// mix64 is the SplitMix64 finalizer: a bijective avalanche over uint64.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= mixMul1
	x ^= x >> 27
	x *= mixMul2
	x ^= x >> 31
	return x
}

// Key is an immutable 128-bit randomness key identifying one independent
// stream. The zero Key is valid (it is NewKey(0) of a distinct lineage),
// but callers should obtain keys from NewKey and Split only.
type Key struct {
	hi, lo uint64
}

// NewKey derives a root Key from a 64-bit seed.
// Distinct seeds give unrelated keys.
func NewKey(seed uint64) Key {
	return Key{
		hi: mix64(seed + goldenGamma),
		lo: mix64(seed + goldenGamma + goldenGamma),
	}
}

// child derives the i-th child of k. Children of the same parent, and
// children of distinct parents, are pairwise unrelated streams.
func (k Key) child(i uint64) Key {
	h := mix64(k.hi + (2*i+1)*goldenGamma)
	return Key{
		hi: h,
		lo: mix64(k.lo ^ h + (2*i+2)*goldenGamma),
	}
}

// Split derives two fresh child keys from k. After splitting, k itself
// must not be used to seed randomness again.
func (k Key) Split() (Key, Key) {
	return k.child(0), k.child(1)
}

// SplitN derives n fresh child keys from k, one per independent branch
// (for example one per chain or one per posterior sample).
// SplitN(2) yields the same pair as Split.
func (k Key) SplitN(n int) []Key {
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = k.child(uint64(i))
	}
	return keys
}

// Uint64 collapses the key into a single 64-bit value. Used to seed
// downstream generators; does not consume the key.
func (k Key) Uint64() uint64 {
	return mix64(k.hi ^ (k.lo + goldenGamma))
}

// Source returns a fresh x/exp/rand PCG source seeded from k, suitable
// for the Src field of gonum/stat/distuv distributions. Each call returns
// an independent source object positioned at the same stream start, so a
// given key always replays the same draw sequence.
func (k Key) Source() rand.Source {
	return rand.NewSource(k.Uint64())
}
