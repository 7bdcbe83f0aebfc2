package launcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/parcel/internal/logging"
	"github.com/arloliu/parcel/types"
)

// Exit codes reported for goroutine workers, mirroring a Go process.
const (
	exitCodeError = 1
	exitCodePanic = 2
	exitCodeNone  = -1
)

// RunFunc is the body a goroutine worker executes.
type RunFunc func(ctx context.Context, a types.Assignment) error

// Goroutine launches each worker as a goroutine.
//
// Identities are "g-1", "g-2", ... in launch order and are never reused.
// Termination is classified as:
//   - nil return: ReasonExit, code 0
//   - error wrapping types.ErrKilled, or a Kill call: ReasonKilled
//   - launch context cancelled: ReasonSignaled
//   - panic: ReasonExit, code 2
//   - any other error: ReasonExit, code 1
type Goroutine struct {
	run     RunFunc
	logger  types.Logger
	seq     atomic.Uint64
	cancels *xsync.Map[string, context.CancelCauseFunc]
	wg      sync.WaitGroup
}

var _ types.Launcher = (*Goroutine)(nil)

// GoroutineOption configures a Goroutine launcher.
type GoroutineOption func(*Goroutine)

// WithGoroutineLogger sets the logger used for worker failures.
func WithGoroutineLogger(logger types.Logger) GoroutineOption {
	return func(g *Goroutine) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGoroutine creates an in-process launcher running run for every assignment.
//
// Example:
//
//	mem := sink.NewMemory()
//	l := launcher.NewGoroutine(func(ctx context.Context, a types.Assignment) error {
//	    return worker.Run(ctx, a, mem)
//	})
func NewGoroutine(run RunFunc, opts ...GoroutineOption) *Goroutine {
	g := &Goroutine{
		run:     run,
		logger:  logging.NewNop(),
		cancels: xsync.NewMap[string, context.CancelCauseFunc](),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Launch starts a goroutine for a.
//
// Parameters:
//   - ctx: Launch context; cancelling it terminates the worker
//   - a: Work assignment
//
// Returns:
//   - types.Handle: Handle of the running worker
//   - error: ctx error or ErrInvalidAssignment
func (g *Goroutine) Launch(ctx context.Context, a types.Assignment) (types.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	id := "g-" + strconv.FormatUint(g.seq.Add(1), 10)
	wctx, cancel := context.WithCancelCause(ctx)
	g.cancels.Store(id, cancel)

	h := newHandle(id)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer close(h.events)
		defer g.cancels.Delete(id)
		defer cancel(nil)

		h.events <- types.Online(id)
		err := g.safeRun(wctx, a)
		h.events <- g.classify(wctx, id, err)
	}()

	return h, nil
}

// Kill terminates the worker abnormally, as a SIGKILL would a process.
//
// Returns:
//   - error: ErrUnknownWorker if id is not running
func (g *Goroutine) Kill(id string) error {
	cancel, ok := g.cancels.Load(id)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownWorker, id)
	}
	cancel(types.ErrKilled)

	return nil
}

// Active returns the number of running worker goroutines.
func (g *Goroutine) Active() int {
	return g.cancels.Size()
}

// Wait blocks until every launched goroutine has returned.
func (g *Goroutine) Wait() {
	g.wg.Wait()
}

func (g *Goroutine) safeRun(ctx context.Context, a types.Assignment) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()

	return g.run(ctx, a)
}

func (g *Goroutine) classify(ctx context.Context, id string, err error) types.LifecycleEvent {
	var pe *panicError
	switch {
	case err == nil:
		return types.Terminated(id, 0, types.ReasonExit, nil)
	case errors.As(err, &pe):
		g.logger.Error("worker panicked", "worker_id", id, "panic", pe.value)
		return types.Terminated(id, exitCodePanic, types.ReasonExit, err)
	case types.IsKilled(err) || errors.Is(context.Cause(ctx), types.ErrKilled):
		return types.Terminated(id, exitCodeNone, types.ReasonKilled, err)
	case ctx.Err() != nil:
		return types.Terminated(id, exitCodeNone, types.ReasonSignaled, err)
	default:
		return types.Terminated(id, exitCodeError, types.ReasonExit, err)
	}
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("worker panic: %v", e.value)
}
