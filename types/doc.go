// Package types provides core type definitions and interfaces for the parcel library.
//
// This package contains shared types that are used across multiple packages in the
// parcel library. By keeping these types in a separate package, we avoid import cycles
// between the main parcel package and its launcher, worker and sink implementations.
//
// Key types:
//   - Share: One worker's contiguous slice of the total range
//   - Assignment: A Share plus the sequence index and attempt it is launched with
//   - WorkerRecord: Mapping from a runtime worker identity to its sequence index
//   - LifecycleEvent: Online and terminated notifications from a launched worker
//   - State: Supervisor lifecycle state
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
