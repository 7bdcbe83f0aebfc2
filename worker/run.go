package worker

import (
	"context"
	"fmt"

	"github.com/arloliu/parcel/types"
)

type options struct {
	crash      bool
	crashIndex int
	crashAfter int
}

// Option configures Run.
type Option func(*options)

// WithCrash makes the worker for the given sequence index end abnormally
// after emitting `after` values.
//
// Only the first incarnation (Attempt 0) crashes; the replacement the
// supervisor launches runs the share to completion. A negative after is
// treated as 0.
//
// Example:
//
//	err := worker.Run(ctx, a, sink, worker.WithCrash(3, 0))
//	// err wraps types.ErrKilled when a.Index == 3 && a.Attempt == 0
func WithCrash(index, after int) Option {
	return func(o *options) {
		o.crash = true
		o.crashIndex = index
		o.crashAfter = max(after, 0)
	}
}

// Run emits every value of the assignment's range, ascending, to sink.
//
// Parameters:
//   - ctx: Cancellation stops emission early
//   - a: Assignment describing the share
//   - sink: Destination for emitted values
//   - opts: Optional behaviour such as WithCrash
//
// Returns:
//   - error: nil after the whole share was emitted; ctx.Err() when cancelled;
//     an error wrapping types.ErrKilled when the crash hook fired; the sink
//     error otherwise
func Run(ctx context.Context, a types.Assignment, sink types.Sink, opts ...Option) error {
	if err := a.Validate(); err != nil {
		return err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	crashing := o.crash && o.crashIndex == a.Index && a.Attempt == 0

	emitted := 0
	for v := a.Start(); v <= a.EndOffset; v++ {
		if crashing && emitted == o.crashAfter {
			return fmt.Errorf("%w: index %d after %d values", types.ErrKilled, a.Index, emitted)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.Emit(ctx, a.Index, v); err != nil {
			return fmt.Errorf("emit %d: %w", v, err)
		}
		emitted++
	}

	if crashing {
		return fmt.Errorf("%w: index %d after %d values", types.ErrKilled, a.Index, emitted)
	}

	return nil
}
