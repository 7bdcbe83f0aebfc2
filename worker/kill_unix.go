//go:build unix

package worker

import (
	"os"
	"syscall"
	"time"
)

// KillSelf terminates the current process with SIGKILL, the signal the
// process launcher classifies as an abnormal kill.
func KillSelf() {
	_ = syscall.Kill(os.Getpid(), syscall.SIGKILL)

	// SIGKILL cannot be caught; wait for delivery.
	for {
		time.Sleep(time.Second)
	}
}
