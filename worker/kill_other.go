//go:build !unix

package worker

import "os"

// KilledExitCode is the exit status a worker uses to report an abnormal
// kill on platforms without SIGKILL.
const KilledExitCode = 137

// KillSelf exits with KilledExitCode.
func KillSelf() {
	os.Exit(KilledExitCode)
}
