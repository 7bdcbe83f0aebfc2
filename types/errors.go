package types

import "errors"

// Sentinel errors for the parcel library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Supervisor errors - Public API errors returned by the Supervisor.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidPartitionInput is returned for a negative total or divisor.
	ErrInvalidPartitionInput = errors.New("invalid partition input")

	// ErrLauncherRequired is returned when the launcher is nil.
	ErrLauncherRequired = errors.New("launcher is required")

	// ErrUnitCounterRequired is returned when the unit counter is nil.
	ErrUnitCounterRequired = errors.New("unit counter is required")

	// ErrAlreadyStarted is returned when Start is called on an already running supervisor.
	ErrAlreadyStarted = errors.New("supervisor already started")

	// ErrNotStarted is returned when operations require a started supervisor.
	ErrNotStarted = errors.New("supervisor not started")

	// ErrLaunchFailed is returned when a worker could not be launched.
	ErrLaunchFailed = errors.New("worker launch failed")

	// ErrRestartLimitExceeded is reported when an index exceeds the configured restart cap.
	ErrRestartLimitExceeded = errors.New("restart limit exceeded")
)

// Worker errors - Errors produced by worker bodies and launchers.
var (
	// ErrKilled marks a worker that ended via the abnormal-kill path and did
	// not complete its share.
	ErrKilled = errors.New("worker killed")

	// ErrInvalidAssignment is returned when an assignment is malformed.
	ErrInvalidAssignment = errors.New("invalid assignment")

	// ErrUnknownWorker is returned when a worker identity is not tracked.
	ErrUnknownWorker = errors.New("unknown worker")
)

// IsKilled checks if an error reports an abnormal kill.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is or wraps ErrKilled
func IsKilled(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrKilled)
}
