// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/arloliu/parcel/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	sup, err := parcel.NewSupervisor(&cfg, counter, l, parcel.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// SupervisorMetrics implementation

// RecordStateTransition discards the state transition metric.
func (n *NopMetrics) RecordStateTransition(_ /* from */, _ /* to */ types.State, _ /* duration */ float64) {
	// No-op
}

// RecordPlan discards the plan metric.
func (n *NopMetrics) RecordPlan(_ /* total */, _ /* workers */ int) {
	// No-op
}

// RecordActiveWorkers discards the active workers metric.
func (n *NopMetrics) RecordActiveWorkers(_ /* count */ int) {
	// No-op
}

// WorkerMetrics implementation

// RecordWorkerLaunch discards the worker launch metric.
func (n *NopMetrics) RecordWorkerLaunch(_ /* index */ int, _ /* restart */ bool) {
	// No-op
}

// RecordWorkerTermination discards the worker termination metric.
func (n *NopMetrics) RecordWorkerTermination(_ /* outcome */ string, _ /* lifetime */ float64) {
	// No-op
}

// RecordLaunchFailure discards the launch failure metric.
func (n *NopMetrics) RecordLaunchFailure(_ /* index */ int) {
	// No-op
}
