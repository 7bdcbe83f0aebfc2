package parcel

import "github.com/arloliu/parcel/types"

// Re-export types from the types package.
//
// Internal packages depend on `types` rather than on the root package, which
// avoids import cycles while still offering parcel.Share, parcel.Logger, etc.
type (
	State             = types.State
	Share             = types.Share
	Assignment        = types.Assignment
	WorkerRecord      = types.WorkerRecord
	LifecycleEvent    = types.LifecycleEvent
	EventKind         = types.EventKind
	TerminationReason = types.TerminationReason
)

// Re-export interfaces from the types package for convenience.
type (
	Launcher         = types.Launcher
	Handle           = types.Handle
	UnitCounter      = types.UnitCounter
	Partitioner      = types.Partitioner
	Sink             = types.Sink
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export State constants from the types package.
const (
	StateInit     = types.StateInit
	StateRunning  = types.StateRunning
	StateDraining = types.StateDraining
	StateStopped  = types.StateStopped
)

// Re-export lifecycle constants from the types package.
const (
	EventOnline     = types.EventOnline
	EventTerminated = types.EventTerminated

	ReasonExit     = types.ReasonExit
	ReasonKilled   = types.ReasonKilled
	ReasonSignaled = types.ReasonSignaled
)
