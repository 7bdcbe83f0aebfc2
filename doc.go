// Package parcel splits a contiguous integer range across a pool of workers,
// one per available processing unit, and supervises them until every share
// has been completed once.
//
// The range [1, Total] is divided by partition.Distribute: with divisor d,
// the first Total%d shares get one extra item, so share sizes never differ
// by more than one. Each worker receives its share as an inclusive range
// [EndOffset-Size+1, EndOffset] and emits its values in ascending order.
//
// # Quick Start
//
//	cfg := parcel.DefaultConfig() // Total: 100
//	out := sink.NewWriter(os.Stdout)
//	l := launcher.NewGoroutine(func(ctx context.Context, a parcel.Assignment) error {
//	    return worker.Run(ctx, a, out)
//	})
//
//	sup, err := parcel.NewSupervisor(&cfg, units.NewHost(), l)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := sup.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	_ = sup.Wait(ctx)
//	_ = out.Flush(ctx)
//
// # Restarts
//
// A worker that ends via the abnormal-kill path (SIGKILL for a process,
// launcher.Goroutine.Kill or a types.ErrKilled return for a goroutine) is
// relaunched with the identical share and Attempt+1. Any other termination,
// including a non-zero exit code, counts as completion. Restarts are
// unbounded unless Config.Restart.MaxRestarts is set.
//
// # Architecture
//
// The supervisor progresses through a state machine:
//
//	INIT → RUNNING → DRAINING → STOPPED
//
// Worker lifecycle events from every launcher handle are funneled into a
// single reaction goroutine, which owns the identity-to-index table and
// decides on restarts.
//
// See cmd/parcel for a complete command-line program.
package parcel
