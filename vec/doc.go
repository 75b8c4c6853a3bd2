// Package vec provides the small element-wise kernels shared by the
// distribution, transform and inference packages: cloning, summation,
// finiteness checks, scalar-or-equal-length broadcasting and element-wise
// medians.
//
// Design:
//   - All kernels are pure and deterministic: fixed flat 0..n-1 loop order,
//     no hidden allocations beyond the documented output slice.
//   - Broadcasting follows a single rule — two lengths are compatible when
//     they are equal or either is 1 — checked once via Broadcast2 and then
//     indexed via At.
//   - Validation is centralized here (ValidateNonEmpty, Broadcast2) and
//     reported via plain sentinel errors so call sites can wrap uniformly.
//
// Numeric summation delegates to gonum/floats. Medians sort a column copy
// and take the middle order statistic, averaging the two middle values for
// even batch sizes.
package vec
