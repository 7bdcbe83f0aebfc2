// Package worker implements the body every launched worker runs: walk the
// assigned inclusive range in ascending order and emit each value to a sink.
//
// The same body runs in-process (launcher.Goroutine) and in a re-executed
// child process (launcher.Process). In the latter case the assignment travels
// through the environment; see EncodeEnv and DecodeEnv.
package worker
