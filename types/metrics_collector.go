package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	SupervisorMetrics
	WorkerMetrics
}

// SupervisorMetrics defines metrics for supervisor-level operations.
type SupervisorMetrics interface {
	// RecordStateTransition records a supervisor state transition event.
	RecordStateTransition(from, to State, duration float64)

	// RecordPlan records the partition plan computed at startup.
	//
	// Parameters:
	//   - total: Total quantity of work
	//   - workers: Number of workers launched
	RecordPlan(total, workers int)

	// RecordActiveWorkers sets the current outstanding worker count (gauge metric).
	RecordActiveWorkers(count int)
}

// WorkerMetrics defines metrics for individual worker lifecycles.
type WorkerMetrics interface {
	// RecordWorkerLaunch records a worker launch.
	//
	// Parameters:
	//   - index: Sequence index of the launched share
	//   - restart: true if the launch replaces a killed worker
	RecordWorkerLaunch(index int, restart bool)

	// RecordWorkerTermination records a worker termination.
	//
	// Parameters:
	//   - outcome: "completed", "nonzero_exit", "signaled", "killed" or "abandoned"
	//   - lifetime: Seconds between launch and termination
	RecordWorkerTermination(outcome string, lifetime float64)

	// RecordLaunchFailure records a launcher error.
	RecordLaunchFailure(index int)
}
