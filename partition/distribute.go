package partition

import (
	"fmt"
	"iter"

	"github.com/arloliu/parcel/types"
)

// Distribute returns the share sizes for total split across divisor workers
// as a lazy sequence.
//
// The sequence is finite and restartable: every range over it regenerates the
// values from scratch. With divisor == 0 it yields a single 0. Negative input
// is out of contract and yields nothing; use Sizes to get a validation error.
//
// Parameters:
//   - total: Quantity of work to split (>= 0)
//   - divisor: Number of shares (>= 0)
//
// Returns:
//   - iter.Seq[int]: Share sizes, larger shares first
//
// Example:
//
//	for size := range partition.Distribute(100, 12) {
//	    fmt.Println(size) // 9 9 9 9 8 8 8 8 8 8 8 8
//	}
func Distribute(total, divisor int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if total < 0 || divisor < 0 {
			return
		}
		if divisor == 0 {
			yield(0)
			return
		}

		rest := total % divisor
		base := total / divisor
		for i := range divisor {
			size := base
			if i < rest {
				size++
			}
			if !yield(size) {
				return
			}
		}
	}
}

// Sizes materializes Distribute into a slice after validating the input.
//
// Parameters:
//   - total: Quantity of work to split
//   - divisor: Number of shares
//
// Returns:
//   - []int: Share sizes (length divisor, or [0] when divisor is 0)
//   - error: ErrInvalidPartitionInput when total or divisor is negative
func Sizes(total, divisor int) ([]int, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: total must be >= 0, got %d", types.ErrInvalidPartitionInput, total)
	}
	if divisor < 0 {
		return nil, fmt.Errorf("%w: divisor must be >= 0, got %d", types.ErrInvalidPartitionInput, divisor)
	}

	sizes := make([]int, 0, max(divisor, 1))
	for size := range Distribute(total, divisor) {
		sizes = append(sizes, size)
	}

	return sizes, nil
}
