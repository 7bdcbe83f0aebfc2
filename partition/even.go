package partition

import "github.com/arloliu/parcel/types"

// Even implements types.Partitioner with near-equal contiguous shares.
type Even struct{}

var _ types.Partitioner = (*Even)(nil)

// NewEven creates the even partitioner.
//
// Returns:
//   - *Even: Stateless partitioner
//
// Example:
//
//	sup, err := parcel.NewSupervisor(&cfg, units.Host(), l,
//	    parcel.WithPartitioner(partition.NewEven()))
func NewEven() *Even {
	return &Even{}
}

// Sizes returns the near-equal share sizes for total across divisor workers.
func (e *Even) Sizes(total, divisor int) ([]int, error) {
	return Sizes(total, divisor)
}
