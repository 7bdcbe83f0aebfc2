package types

// State represents the supervisor lifecycle state.
//
// States follow a fixed progression:
//
//	StateInit → StateRunning → StateDraining → StateStopped
//
// Running lasts while any worker is outstanding. Draining has no distinct
// action beyond letting the last workers and hooks resolve.
type State int

const (
	// StateInit is the initial state before Start.
	StateInit State = iota

	// StateRunning indicates at least one worker is outstanding.
	StateRunning

	// StateDraining indicates no further restarts will be issued.
	StateDraining

	// StateStopped indicates every worker has resolved.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
