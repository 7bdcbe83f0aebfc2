package parcel

import "github.com/arloliu/parcel/types"

// Sentinel errors returned by the Supervisor, re-exported from the types package.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrInvalidPartitionInput is returned for a negative total or divisor.
	ErrInvalidPartitionInput = types.ErrInvalidPartitionInput

	// ErrLauncherRequired is returned when the launcher is nil.
	ErrLauncherRequired = types.ErrLauncherRequired

	// ErrUnitCounterRequired is returned when the unit counter is nil.
	ErrUnitCounterRequired = types.ErrUnitCounterRequired

	// ErrAlreadyStarted is returned when Start is called on an already started supervisor.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when Wait or Stop is called before Start.
	ErrNotStarted = types.ErrNotStarted

	// ErrLaunchFailed is returned when a worker could not be launched.
	ErrLaunchFailed = types.ErrLaunchFailed

	// ErrRestartLimitExceeded is reported through OnError when an index is given up.
	ErrRestartLimitExceeded = types.ErrRestartLimitExceeded

	// ErrKilled marks a worker that ended via the abnormal-kill path.
	ErrKilled = types.ErrKilled

	// ErrInvalidAssignment is returned when an assignment is malformed.
	ErrInvalidAssignment = types.ErrInvalidAssignment
)
