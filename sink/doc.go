// Package sink provides types.Sink implementations that receive the values
// workers emit.
//
// Available sinks:
//   - Writer: one line per value to an io.Writer (stdout in the CLI)
//   - Memory: in-memory capture grouped by sequence index, for tests
//   - NATS: core NATS publish to "<prefix>.<index>"
//   - JetStream: acknowledged JetStream publish to "<prefix>.<index>"
package sink
