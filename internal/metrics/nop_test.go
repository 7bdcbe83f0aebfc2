package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parcel/types"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_DoesNotPanic(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordStateTransition(types.StateInit, types.StateRunning, 1.5)
		metrics.RecordStateTransition(types.State(999), types.State(1000), -1.0)
		metrics.RecordPlan(100, 8)
		metrics.RecordPlan(0, 0)
		metrics.RecordActiveWorkers(-1)
		metrics.RecordWorkerLaunch(3, true)
		metrics.RecordWorkerTermination("killed", 0.25)
		metrics.RecordLaunchFailure(-1)
	})
}
