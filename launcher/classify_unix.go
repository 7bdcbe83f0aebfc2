//go:build unix

package launcher

import (
	"os"
	"syscall"

	"github.com/arloliu/parcel/types"
)

func classifyExit(id string, state *os.ProcessState, err error) types.LifecycleEvent {
	if state == nil {
		return types.Terminated(id, exitCodeNone, types.ReasonExit, err)
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		if ws.Signal() == syscall.SIGKILL {
			return types.Terminated(id, exitCodeNone, types.ReasonKilled, err)
		}

		return types.Terminated(id, exitCodeNone, types.ReasonSignaled, err)
	}

	return types.Terminated(id, state.ExitCode(), types.ReasonExit, err)
}
