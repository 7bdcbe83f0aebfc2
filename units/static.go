package units

import (
	"runtime"
	"sync/atomic"

	"github.com/arloliu/parcel/types"
)

// Static implements a unit counter with a fixed, updatable count.
type Static struct {
	n atomic.Int64
}

var _ types.UnitCounter = (*Static)(nil)

// NewStatic creates a new static unit counter.
//
// Negative counts are passed through unchanged so that the supervisor can
// reject them as invalid partition input.
//
// Parameters:
//   - n: Number of processing units to report
//
// Returns:
//   - *Static: Initialized static counter
//
// Example:
//
//	sup, err := parcel.NewSupervisor(&cfg, units.NewStatic(4), l)
func NewStatic(n int) *Static {
	s := &Static{}
	s.n.Store(int64(n))

	return s
}

// Units returns the configured count.
func (s *Static) Units() int {
	return int(s.n.Load())
}

// Update changes the reported count. It only affects supervisors started afterwards.
func (s *Static) Update(n int) {
	s.n.Store(int64(n))
}

// Host reports the number of logical CPUs usable by the current process.
type Host struct{}

var _ types.UnitCounter = Host{}

// NewHost creates a host unit counter.
func NewHost() Host {
	return Host{}
}

// Units returns runtime.GOMAXPROCS(0), which honors CPU affinity and container limits.
func (Host) Units() int {
	return runtime.GOMAXPROCS(0)
}
