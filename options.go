package parcel

// Option configures a Supervisor with optional dependencies.
type Option func(*supervisorOptions)

// supervisorOptions holds optional Supervisor configuration.
type supervisorOptions struct {
	partitioner Partitioner
	hooks       *Hooks
	metrics     MetricsCollector
	logger      Logger
	runID       string
}

// WithPartitioner sets the strategy used to split the work range.
//
// Parameters:
//   - p: Partitioner implementation (default: partition.NewEven())
//
// Returns:
//   - Option: Functional option for NewSupervisor
func WithPartitioner(p Partitioner) Option {
	return func(o *supervisorOptions) {
		o.partitioner = p
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions; nil callbacks are no-ops
//
// Returns:
//   - Option: Functional option for NewSupervisor
//
// Example:
//
//	hooks := &parcel.Hooks{
//	    OnWorkerRestarted: func(ctx context.Context, dead, replacement parcel.WorkerRecord) error {
//	        log.Printf("share %s redone by %s", replacement.Share, replacement.WorkerID)
//	        return nil
//	    },
//	}
//	sup, err := parcel.NewSupervisor(&cfg, counter, l, parcel.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *supervisorOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewSupervisor
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "parcel")
//	sup, err := parcel.NewSupervisor(&cfg, counter, l, parcel.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *supervisorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation taking a message and key/value pairs,
//     like the Infow family of zap.SugaredLogger
//
// Returns:
//   - Option: Functional option for NewSupervisor
func WithLogger(logger Logger) Option {
	return func(o *supervisorOptions) {
		o.logger = logger
	}
}

// WithRunID sets the identifier stamped on every assignment.
//
// Parameters:
//   - runID: Run identifier (default: a random UUID)
//
// Returns:
//   - Option: Functional option for NewSupervisor
func WithRunID(runID string) Option {
	return func(o *supervisorOptions) {
		o.runID = runID
	}
}
