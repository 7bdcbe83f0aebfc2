package worker

import (
	"fmt"
	"os"
	"strconv"

	"github.com/arloliu/parcel/types"
)

// Environment variables carrying an assignment to a worker process.
const (
	EnvSize      = "PARCEL_SIZE"
	EnvEndOffset = "PARCEL_END_OFFSET"
	EnvIndex     = "PARCEL_INDEX"
	EnvAttempt   = "PARCEL_ATTEMPT"
	EnvRunID     = "PARCEL_RUN_ID"
)

// EncodeEnv renders an assignment as KEY=value pairs for exec.Cmd.Env.
func EncodeEnv(a types.Assignment) []string {
	return []string{
		EnvSize + "=" + strconv.Itoa(a.Size),
		EnvEndOffset + "=" + strconv.Itoa(a.EndOffset),
		EnvIndex + "=" + strconv.Itoa(a.Index),
		EnvAttempt + "=" + strconv.Itoa(a.Attempt),
		EnvRunID + "=" + a.RunID,
	}
}

// DecodeEnv reads an assignment using lookup, typically os.LookupEnv.
//
// Returns:
//   - types.Assignment: The decoded and validated assignment
//   - error: ErrInvalidAssignment wrapped with the offending variable
func DecodeEnv(lookup func(string) (string, bool)) (types.Assignment, error) {
	var a types.Assignment
	var err error

	if a.Size, err = lookupInt(lookup, EnvSize, true); err != nil {
		return types.Assignment{}, err
	}
	if a.EndOffset, err = lookupInt(lookup, EnvEndOffset, true); err != nil {
		return types.Assignment{}, err
	}
	if a.Index, err = lookupInt(lookup, EnvIndex, true); err != nil {
		return types.Assignment{}, err
	}
	if a.Attempt, err = lookupInt(lookup, EnvAttempt, false); err != nil {
		return types.Assignment{}, err
	}
	a.RunID, _ = lookup(EnvRunID)

	if err := a.Validate(); err != nil {
		return types.Assignment{}, err
	}

	return a, nil
}

// IsWorkerProcess reports whether the current process was launched as a worker.
func IsWorkerProcess() bool {
	_, ok := os.LookupEnv(EnvIndex)
	return ok
}

func lookupInt(lookup func(string) (string, bool), key string, required bool) (int, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is not set", types.ErrInvalidAssignment, key)
		}

		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", types.ErrInvalidAssignment, key, raw, err)
	}

	return n, nil
}
