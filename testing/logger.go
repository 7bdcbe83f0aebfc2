package testing

import (
	"testing"

	"github.com/arloliu/parcel/internal/logging"
	"github.com/arloliu/parcel/types"
)

// NewTestLogger creates a new logger instance that writes to the testing.T logger.
// This is useful for seeing supervisor log output during test runs.
//
// The supervisor must be stopped before the test returns; logging after
// completion fails the test.
func NewTestLogger(t testing.TB) types.Logger {
	return logging.NewTest(t)
}
