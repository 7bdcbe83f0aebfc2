package types

import "context"

// Sink receives the values a worker emits.
//
// Ordering within one worker's emission must be preserved. No ordering is
// required across workers. Implementations must be safe for concurrent use.
type Sink interface {
	// Emit outputs a single value produced by the worker with the given index.
	Emit(ctx context.Context, index int, value int) error

	// Flush blocks until previously emitted values have been delivered.
	Flush(ctx context.Context) error
}
