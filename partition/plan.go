package partition

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/arloliu/parcel/types"
)

// Plan is the materialized partition of a work unit.
//
// A Plan is computed once at startup and never modified. Shares are
// indexed 1..Divisor; Shares[i-1] belongs to sequence index i.
type Plan struct {
	Total   int
	Divisor int

	// Sizes is the raw partitioner output. When Divisor is 0 it holds the
	// single degenerate value 0 and no shares exist.
	Sizes []int

	// Shares holds one share per worker with prefix-sum end offsets.
	Shares []types.Share

	fingerprint uint64
}

// NewPlan partitions total across divisor workers using p.
//
// Parameters:
//   - p: Partitioner producing the share sizes
//   - total: Quantity of work (>= 0)
//   - divisor: Number of workers (>= 0)
//
// Returns:
//   - *Plan: Materialized plan
//   - error: ErrInvalidPartitionInput for negative input or a partitioner
//     whose output does not fit the work unit
func NewPlan(p types.Partitioner, total, divisor int) (*Plan, error) {
	sizes, err := p.Sizes(total, divisor)
	if err != nil {
		return nil, err
	}

	workers := divisor
	if len(sizes) < workers {
		return nil, fmt.Errorf("%w: partitioner returned %d sizes for %d workers",
			types.ErrInvalidPartitionInput, len(sizes), divisor)
	}

	shares := make([]types.Share, workers)
	end := 0
	for i := range workers {
		if sizes[i] < 0 {
			return nil, fmt.Errorf("%w: negative share size %d at index %d",
				types.ErrInvalidPartitionInput, sizes[i], i+1)
		}
		end += sizes[i]
		shares[i] = types.Share{Size: sizes[i], EndOffset: end}
	}
	if workers > 0 && end != total {
		return nil, fmt.Errorf("%w: share sizes sum to %d, want %d",
			types.ErrInvalidPartitionInput, end, total)
	}

	plan := &Plan{
		Total:   total,
		Divisor: divisor,
		Sizes:   sizes,
		Shares:  shares,
	}
	plan.fingerprint = plan.hash()

	return plan, nil
}

// Workers returns the number of workers the plan launches.
func (p *Plan) Workers() int {
	return len(p.Shares)
}

// Share returns the share owned by the 1-based sequence index.
//
// Returns:
//   - types.Share: The share recomputed from the original partition
//   - bool: false when index is out of range
func (p *Plan) Share(index int) (types.Share, bool) {
	if index < 1 || index > len(p.Shares) {
		return types.Share{}, false
	}

	return p.Shares[index-1], true
}

// Assignment builds the assignment for index at the given attempt.
//
// Returns:
//   - types.Assignment: Assignment carrying the original share
//   - bool: false when index is out of range
func (p *Plan) Assignment(index, attempt int, runID string) (types.Assignment, bool) {
	share, ok := p.Share(index)
	if !ok {
		return types.Assignment{}, false
	}

	return types.Assignment{Share: share, Index: index, Attempt: attempt, RunID: runID}, true
}

// Fingerprint returns an xxh3 hash of (total, divisor, sizes).
//
// Two plans with the same fingerprint assign bit-identical shares.
func (p *Plan) Fingerprint() uint64 {
	return p.fingerprint
}

// Covers reports whether the shares cover [1, Total] with no gaps and no overlaps.
//
// Returns:
//   - error: nil when coverage is exact, otherwise the first violation found
func (p *Plan) Covers() error {
	if len(p.Shares) == 0 {
		return nil
	}

	next := 1
	for i, s := range p.Shares {
		if s.Empty() {
			if s.EndOffset != next-1 {
				return fmt.Errorf("empty share %d ends at %d, want %d", i+1, s.EndOffset, next-1)
			}

			continue
		}
		if s.Start() != next {
			return fmt.Errorf("share %d starts at %d, want %d", i+1, s.Start(), next)
		}
		next = s.EndOffset + 1
	}
	if next-1 != p.Total {
		return fmt.Errorf("shares end at %d, want %d", next-1, p.Total)
	}

	return nil
}

func (p *Plan) hash() uint64 {
	buf := make([]byte, 0, 8*(2+len(p.Sizes)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Total))   //nolint:gosec // G115: validated non-negative
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Divisor)) //nolint:gosec // G115: validated non-negative
	for _, s := range p.Sizes {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(s)) //nolint:gosec // G115: validated non-negative
	}

	return xxh3.Hash(buf)
}
