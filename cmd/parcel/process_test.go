//go:build unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	parceltest "github.com/arloliu/parcel/testing"
)

func TestRoot_ProcessMode(t *testing.T) {
	output, err := execute(t, "--total", "15", "--units", "4", "--mode", "process")
	require.NoError(t, err)
	require.Equal(t, rangeOf(15), parseValues(t, output))
}

func TestRoot_ProcessModeCrashRestartsShare(t *testing.T) {
	// 15 over 4 units: shares [1,4] [5,8] [9,12] [13,15]. Index 1 is
	// SIGKILLed after emitting 1 and 2 and redone from the start.
	output, err := execute(t, "--total", "15", "--units", "4", "--mode", "process",
		"--crash-index", "1", "--crash-after", "2")
	require.NoError(t, err)

	values := parseValues(t, output)
	require.Equal(t, append([]int{1, 1, 2, 2}, rangeOf(15)[2:]...), values)
}

func TestRoot_ProcessModeNATSSink(t *testing.T) {
	srv, nc := parceltest.StartEmbeddedNATS(t)

	sub, err := nc.SubscribeSync("parcel.values.>")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	_, logs, err := executeWithLogs(t, "--total", "6", "--units", "2", "--mode", "process",
		"--log-format", "text", "--sink", "nats", "--nats-url", srv.ClientURL())
	require.NoError(t, err)
	require.NotContains(t, logs, "non-zero code")
	require.Contains(t, logs, `msg="worker completed"`)

	for range 6 {
		_, err := sub.NextMsg(5 * time.Second)
		require.NoError(t, err)
	}
}
