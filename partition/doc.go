// Package partition splits a total quantity of work into near-equal,
// contiguous shares.
//
// The package provides:
//
//   - Distribute: a lazy, restartable sequence of share sizes
//   - Even: the types.Partitioner implementation used by the supervisor
//   - Plan: materialized shares with prefix-sum end offsets
//
// # Algorithm
//
// For total T split across D workers, rest = T mod D and base = T / D.
// The first rest shares have size base+1, the remaining D-rest have size
// base. Sizes therefore sum to T exactly and differ pairwise by at most 1,
// with larger shares first:
//
//	Distribute(100, 12) → 9 9 9 9 8 8 8 8 8 8 8 8
//
// A divisor of 0 yields the single value 0.
//
// # Ranges
//
// Share i covers the 1-indexed inclusive range [end_i-size_i+1, end_i],
// where end_i is the prefix sum of sizes 1..i. The union of all ranges is
// exactly [1, T] with no gaps and no overlaps.
package partition
