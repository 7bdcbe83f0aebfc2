package types

import "context"

// Hooks defines callbacks for Supervisor lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking the event reaction loop. Hooks receive the supervisor's
// lifecycle context which will be cancelled during shutdown.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks run concurrently and in no guaranteed order
//   - The supervisor waits for running hooks before reaching StateStopped
//   - Hook errors are logged but don't fail supervisor operations
//
// Example:
//
//	hooks := &parcel.Hooks{
//	    OnWorkerRestarted: func(ctx context.Context, dead, replacement parcel.WorkerRecord) error {
//	        alerts <- fmt.Sprintf("share %d restarted", replacement.Index)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnStateChanged is called when the supervisor state transitions.
	OnStateChanged func(ctx context.Context, from, to State) error

	// OnWorkerOnline is called when a launched worker reports it is running.
	OnWorkerOnline func(ctx context.Context, rec WorkerRecord) error

	// OnWorkerRestarted is called after a killed worker has been relaunched.
	// dead is the terminated worker, replacement the newly launched one.
	OnWorkerRestarted func(ctx context.Context, dead, replacement WorkerRecord) error

	// OnWorkerCompleted is called when a worker terminates without the kill signal.
	OnWorkerCompleted func(ctx context.Context, rec WorkerRecord, ev LifecycleEvent) error

	// OnError is called when a recoverable error occurs.
	OnError func(ctx context.Context, err error) error
}
