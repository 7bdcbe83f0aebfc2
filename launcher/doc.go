// Package launcher provides types.Launcher implementations.
//
// Goroutine runs each worker in-process and supports chaos kills through
// Kill. Process re-executes a binary (usually the running one) with the
// assignment encoded in the environment and classifies how the child ended:
// SIGKILL is the abnormal-kill path, any other signal is ReasonSignaled and
// everything else is a plain exit.
//
// Every handle emits EventOnline, then exactly one EventTerminated, then
// closes its channel. The channel is buffered so a worker never blocks on a
// slow reader.
package launcher
