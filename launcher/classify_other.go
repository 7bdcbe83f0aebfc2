//go:build !unix

package launcher

import (
	"os"

	"github.com/arloliu/parcel/types"
	"github.com/arloliu/parcel/worker"
)

func classifyExit(id string, state *os.ProcessState, err error) types.LifecycleEvent {
	if state == nil {
		return types.Terminated(id, exitCodeNone, types.ReasonExit, err)
	}

	if state.ExitCode() == worker.KilledExitCode {
		return types.Terminated(id, state.ExitCode(), types.ReasonKilled, err)
	}

	return types.Terminated(id, state.ExitCode(), types.ReasonExit, err)
}
