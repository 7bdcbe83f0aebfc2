package types

import "context"

// Launcher creates independently scheduled workers.
//
// Implementations decide how a worker is physically run (goroutine, OS
// process). The supervisor only relies on the returned Handle.
type Launcher interface {
	// Launch starts a worker for the given assignment.
	//
	// The worker must observe ctx: when it is cancelled the worker should
	// stop and its handle must still emit a terminated event.
	//
	// Parameters:
	//   - ctx: Launch context, cancelled when the supervisor stops
	//   - a: Work assignment (copied, never shared)
	//
	// Returns:
	//   - Handle: Handle for the running worker
	//   - error: Error if the worker could not be started
	Launch(ctx context.Context, a Assignment) (Handle, error)
}

// Handle exposes a launched worker's identity and lifecycle events.
type Handle interface {
	// ID returns the stable runtime identity of the worker (e.g. a process id).
	ID() string

	// Events returns the worker's lifecycle stream. It emits EventOnline,
	// then exactly one EventTerminated, and is then closed.
	Events() <-chan LifecycleEvent
}

// UnitCounter reports how many parallel processing units are available.
type UnitCounter interface {
	// Units returns the count of available processing units (>= 0).
	Units() int
}

// Partitioner splits a total quantity into near-equal share sizes.
//
// Implementations must be deterministic and stateless: every call
// regenerates the sequence from scratch.
type Partitioner interface {
	// Sizes returns the ordered share sizes for total split across divisor workers.
	//
	// Returns:
	//   - []int: Share sizes (a single 0 when divisor is 0)
	//   - error: ErrInvalidPartitionInput for negative input
	Sizes(total, divisor int) ([]int, error)
}
