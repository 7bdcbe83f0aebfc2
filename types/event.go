package types

// EventKind identifies a worker lifecycle notification.
type EventKind int

const (
	// EventOnline is emitted once the worker is running.
	EventOnline EventKind = iota

	// EventTerminated is emitted exactly once when the worker has ended.
	EventTerminated
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventOnline:
		return "online"
	case EventTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// TerminationReason classifies how a worker ended, independent of any
// specific OS signal name.
type TerminationReason int

const (
	// ReasonExit means the worker ended on its own, with any exit code.
	ReasonExit TerminationReason = iota

	// ReasonKilled means the worker was terminated by the designated
	// abnormal-kill signal and did not complete its share.
	ReasonKilled

	// ReasonSignaled means the worker was terminated by some other signal.
	ReasonSignaled
)

// String returns the string representation of the termination reason.
func (r TerminationReason) String() string {
	switch r {
	case ReasonExit:
		return "exit"
	case ReasonKilled:
		return "killed"
	case ReasonSignaled:
		return "signaled"
	default:
		return "unknown"
	}
}

// Abnormal reports whether the reason requires the share to be redone.
func (r TerminationReason) Abnormal() bool {
	return r == ReasonKilled
}

// LifecycleEvent is a notification emitted by a launched worker's handle.
//
// A handle emits EventOnline first and exactly one EventTerminated last.
// ExitCode and Reason are only meaningful for EventTerminated.
type LifecycleEvent struct {
	Kind     EventKind
	WorkerID string
	ExitCode int
	Reason   TerminationReason

	// Err carries the underlying error for diagnostics, if any.
	Err error
}

// Online builds an EventOnline for the given worker.
func Online(workerID string) LifecycleEvent {
	return LifecycleEvent{Kind: EventOnline, WorkerID: workerID}
}

// Terminated builds an EventTerminated for the given worker.
func Terminated(workerID string, exitCode int, reason TerminationReason, err error) LifecycleEvent {
	return LifecycleEvent{
		Kind:     EventTerminated,
		WorkerID: workerID,
		ExitCode: exitCode,
		Reason:   reason,
		Err:      err,
	}
}
