// Package rng provides splittable, immutable randomness keys for
// reproducible probabilistic computation.
//
// 🔑 What is a Key?
//
//	A Key is a 128-bit value identifying one independent randomness stream.
//	Keys are never mutated and never reused: whenever a computation branches
//	(one draw per site, one search iteration, one chain), it splits its key
//	into fresh children and hands each branch its own. The same parent key
//	always yields the same children, so an identical initial key reproduces
//	an identical computation regardless of execution order or parallelism.
//
// ✨ Design rules:
//
//   - Split, never reuse – a key that seeded a draw must not seed another
//   - No global state – every source of randomness is an explicit Key value
//   - Cheap – splitting is a handful of SplitMix64 finalizer rounds
//
// Keys bridge into the gonum ecosystem via Key.Source, which returns a
// golang.org/x/exp/rand PCG source suitable for the Src field of
// gonum/stat/distuv distributions.
//
// Usage:
//
//	key := rng.NewKey(42)
//	kLeft, kRight := key.Split()
//	chains := key.SplitN(4) // four independent chain keys
//	src := kLeft.Source()   // feed distuv.Normal{Src: src}
package rng
