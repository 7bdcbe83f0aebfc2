package parcel

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/parcel/internal/hooks"
	"github.com/arloliu/parcel/internal/logging"
	"github.com/arloliu/parcel/internal/metrics"
	"github.com/arloliu/parcel/internal/registry"
	"github.com/arloliu/parcel/partition"
)

// Termination outcomes reported to MetricsCollector.RecordWorkerTermination.
const (
	outcomeCompleted   = "completed"
	outcomeNonZeroExit = "nonzero_exit"
	outcomeSignaled    = "signaled"
	outcomeKilled      = "killed"
	outcomeAbandoned   = "abandoned"
	outcomeInterrupted = "interrupted"
)

// Supervisor partitions a work range across workers and keeps every share
// running until it has been completed once.
//
// Supervisor is the main entry point of the parcel module. It handles:
//   - Computing the partition plan from the available processing units
//   - Launching one worker per share through a Launcher
//   - Restarting workers that end via the abnormal-kill path with the
//     identical share
//   - Reporting lifecycle events through hooks, metrics and the logger
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Lifecycle events are handled by a single reaction goroutine; the
//     worker record table is only mutated there (or in Start before that
//     goroutine exists)
//
// Lifecycle:
//   - Create with NewSupervisor()
//   - Call Start() to plan and launch workers
//   - Call Wait() to block until every share is done, or Stop() to shut down
type Supervisor struct {
	cfg      Config
	units    UnitCounter
	launcher Launcher

	// Optional dependencies
	partitioner Partitioner
	hooks       *Hooks
	metrics     MetricsCollector
	logger      Logger
	runID       string

	// Run state
	plan        atomic.Pointer[partition.Plan]
	records     *registry.Table
	state       atomic.Int32 // State
	stateSince  time.Time    // reaction goroutine only
	stopping    atomic.Bool
	events      chan LifecycleEvent
	outstanding int // reaction goroutine only

	// Lifecycle management
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	forwardWg sync.WaitGroup
	hookWg    sync.WaitGroup
	mu        sync.Mutex
}

// NewSupervisor creates a new Supervisor instance.
//
// Returns a concrete *Supervisor struct following the "accept interfaces,
// return structs" principle.
//
// Parameters:
//   - cfg: Configuration (defaults are filled in; the caller's value is copied)
//   - units: Processing-unit source, consulted when cfg.Units is 0
//   - launcher: Launcher that runs each worker
//   - opts: Optional configuration (partitioner, hooks, metrics, logger, run ID)
//
// Returns:
//   - *Supervisor: Initialized supervisor
//   - error: ErrInvalidConfig, ErrUnitCounterRequired or ErrLauncherRequired
//
// Example:
//
//	cfg := parcel.DefaultConfig()
//	mem := sink.NewMemory()
//	l := launcher.NewGoroutine(func(ctx context.Context, a parcel.Assignment) error {
//	    return worker.Run(ctx, a, mem)
//	})
//	sup, err := parcel.NewSupervisor(&cfg, units.NewHost(), l)
func NewSupervisor(cfg *Config, units UnitCounter, launcher Launcher, opts ...Option) (*Supervisor, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if units == nil {
		return nil, ErrUnitCounterRequired
	}
	if launcher == nil {
		return nil, ErrLauncherRequired
	}

	c := *cfg
	SetDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	options := &supervisorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	partitioner := options.partitioner
	if partitioner == nil {
		partitioner = partition.NewEven()
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	c.ValidateWithWarnings(loggerInstance)

	runID := options.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	s := &Supervisor{
		cfg:         c,
		units:       units,
		launcher:    launcher,
		partitioner: partitioner,
		hooks:       hooks.Fill(options.hooks),
		metrics:     metricsCollector,
		logger:      loggerInstance,
		runID:       runID,
		records:     registry.New(),
		done:        make(chan struct{}),
	}
	s.state.Store(int32(StateInit))

	return s, nil
}

// Start computes the partition plan and launches one worker per share.
//
// Start returns once every initial worker has been launched; shares are
// processed in the background. A negative total or divisor fails with
// ErrInvalidPartitionInput before anything is launched. If a launch fails,
// the workers already launched are cancelled and drained, and an error
// wrapping ErrLaunchFailed is returned.
//
// Parameters:
//   - ctx: Bounds startup; it is not the lifetime of the workers
//
// Returns:
//   - error: Startup error, ErrAlreadyStarted, or ctx error
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.ctx != nil {
		s.mu.Unlock()

		return ErrAlreadyStarted
	}

	// Workers outlive the startup context; Stop cancels this one.
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	s.stateSince = time.Now()

	divisor := s.cfg.Units
	if divisor == 0 {
		divisor = s.units.Units()
	}

	plan, err := partition.NewPlan(s.partitioner, s.cfg.Total, divisor)
	if err != nil {
		s.logError("failed to compute partition plan", "total", s.cfg.Total, "divisor", divisor, "error", err)
		s.abortStart()

		return fmt.Errorf("failed to compute partition plan: %w", err)
	}
	s.plan.Store(plan)
	s.metrics.RecordPlan(plan.Total, plan.Workers())

	s.logger.Info("partition plan computed",
		"run_id", s.runID,
		"total", plan.Total,
		"workers", plan.Workers(),
		"sizes", plan.Sizes,
		"fingerprint", strconv.FormatUint(plan.Fingerprint(), 16),
	)

	s.events = make(chan LifecycleEvent, 2*plan.Workers()+1)
	s.transitionState(StateInit, StateRunning)

	var launchErr error
	for index := 1; index <= plan.Workers(); index++ {
		if s.stopping.Load() {
			break
		}
		if err := ctx.Err(); err != nil {
			launchErr = err
			break
		}

		a, _ := plan.Assignment(index, 0, s.runID)
		h, err := s.launcher.Launch(s.ctx, a)
		if err != nil {
			s.metrics.RecordLaunchFailure(index)
			if s.stopping.Load() {
				break
			}
			launchErr = fmt.Errorf("%w: index %d: %w", ErrLaunchFailed, index, err)

			break
		}

		s.track(h, a)
		s.metrics.RecordWorkerLaunch(index, false)
	}

	if launchErr != nil {
		s.logError("startup aborted, cancelling launched workers", "launched", s.outstanding, "error", launchErr)
		s.stopping.Store(true)
		s.cancel()
	}

	go s.run()

	if launchErr != nil {
		select {
		case <-s.done:
		case <-ctx.Done():
		}

		return launchErr
	}

	return nil
}

// Wait blocks until the supervisor reaches StateStopped.
//
// Parameters:
//   - ctx: Context bounding the wait
//
// Returns:
//   - error: nil once stopped, ErrNotStarted, or ctx error
func (s *Supervisor) Wait(ctx context.Context) error {
	if !s.started() {
		return ErrNotStarted
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops restarting workers, cancels the running ones and waits for
// the supervisor to reach StateStopped.
//
// Safe to call multiple times. When ctx has no deadline the configured
// ShutdownTimeout applies.
//
// Parameters:
//   - ctx: Context for shutdown timeout
//
// Returns:
//   - error: ErrNotStarted, or a timeout error if workers did not exit in time
func (s *Supervisor) Stop(ctx context.Context) error {
	if !s.started() {
		return ErrNotStarted
	}

	if !s.stopping.Swap(true) {
		s.logger.Info("stopping supervisor", "run_id", s.runID, "state", s.State().String())
	}
	s.cancel()

	if _, ok := ctx.Deadline(); !ok && s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.logError("shutdown timeout exceeded, some workers may still be running")
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

// Done returns a channel closed when the supervisor reaches StateStopped.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// State returns the current supervisor state.
//
// Returns:
//   - State: Current state
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Plan returns the partition plan, or nil before Start has computed it.
func (s *Supervisor) Plan() *partition.Plan {
	return s.plan.Load()
}

// Records returns the live worker records sorted by sequence index.
func (s *Supervisor) Records() []WorkerRecord {
	return s.records.Snapshot()
}

// Restarts returns how many times the share at index has been relaunched.
func (s *Supervisor) Restarts(index int) int {
	return s.records.Restarts(index)
}

// RunID returns the identifier stamped on every assignment of this run.
func (s *Supervisor) RunID() string {
	return s.runID
}

func (s *Supervisor) started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctx != nil
}

// abortStart moves a supervisor whose plan could not be computed straight to Stopped.
func (s *Supervisor) abortStart() {
	s.cancel()
	s.transitionState(StateInit, StateStopped)
	s.hookWg.Wait()
	close(s.done)
}

// track records a launched worker and starts forwarding its events.
func (s *Supervisor) track(h Handle, a Assignment) WorkerRecord {
	rec := WorkerRecord{
		WorkerID:   h.ID(),
		Index:      a.Index,
		Attempt:    a.Attempt,
		Share:      a.Share,
		LaunchedAt: time.Now(),
	}
	s.records.Store(rec)
	s.outstanding++
	s.metrics.RecordActiveWorkers(s.outstanding)

	s.forwardWg.Add(1)
	go func() {
		defer s.forwardWg.Done()
		for ev := range h.Events() {
			if ev.WorkerID == "" {
				ev.WorkerID = h.ID()
			}
			s.events <- ev
		}
	}()

	return rec
}

// run is the single reaction goroutine.
func (s *Supervisor) run() {
	for s.outstanding > 0 {
		ev := <-s.events
		switch ev.Kind {
		case EventOnline:
			s.handleOnline(ev)
		case EventTerminated:
			s.handleTerminated(ev)
		}

		if s.stopping.Load() && s.State() == StateRunning {
			s.transitionState(StateRunning, StateDraining)
		}
	}

	if s.State() == StateRunning {
		s.transitionState(StateRunning, StateDraining)
	}

	s.forwardWg.Wait()
	s.transitionState(StateDraining, StateStopped)
	s.hookWg.Wait()
	s.cancel()

	s.logger.Info("supervisor stopped", "run_id", s.runID, "restarts", s.records.TotalRestarts())
	close(s.done)
}

func (s *Supervisor) handleOnline(ev LifecycleEvent) {
	rec, ok := s.records.Load(ev.WorkerID)
	if !ok {
		s.logger.Warn("online event for unknown worker", "worker_id", ev.WorkerID)
		return
	}

	s.logger.Info("worker started", "worker_id", rec.WorkerID, "index", rec.Index, "attempt", rec.Attempt)
	s.runHook("OnWorkerOnline", func(ctx context.Context) error {
		return s.hooks.OnWorkerOnline(ctx, rec)
	})
}

func (s *Supervisor) handleTerminated(ev LifecycleEvent) {
	rec, ok := s.records.Remove(ev.WorkerID)
	if !ok {
		s.logger.Warn("termination event for unknown worker", "worker_id", ev.WorkerID)
		return
	}
	s.outstanding--
	s.metrics.RecordActiveWorkers(s.outstanding)
	lifetime := time.Since(rec.LaunchedAt).Seconds()

	if ev.Reason.Abnormal() {
		if s.stopping.Load() {
			s.logger.Info("worker terminated during shutdown, not restarting",
				"worker_id", rec.WorkerID, "index", rec.Index)
			s.metrics.RecordWorkerTermination(outcomeKilled, lifetime)

			return
		}

		s.restart(rec, lifetime)

		return
	}

	if s.stopping.Load() && ev.Reason == ReasonSignaled {
		s.logger.Info("worker interrupted during shutdown, share not finished",
			"worker_id", rec.WorkerID, "index", rec.Index, "attempt", rec.Attempt)
		s.metrics.RecordWorkerTermination(outcomeInterrupted, lifetime)

		return
	}

	outcome := outcomeCompleted
	switch {
	case ev.Reason == ReasonSignaled:
		outcome = outcomeSignaled
		s.logger.Warn("worker terminated by signal, treating share as done",
			"worker_id", rec.WorkerID, "index", rec.Index, "error", ev.Err)
	case ev.ExitCode != 0:
		outcome = outcomeNonZeroExit
		s.logger.Warn("worker exited with non-zero code, treating share as done",
			"worker_id", rec.WorkerID, "index", rec.Index, "exit_code", ev.ExitCode, "error", ev.Err)
	}

	s.logger.Info("worker completed", "worker_id", rec.WorkerID, "index", rec.Index, "attempt", rec.Attempt)
	s.metrics.RecordWorkerTermination(outcome, lifetime)
	s.runHook("OnWorkerCompleted", func(ctx context.Context) error {
		return s.hooks.OnWorkerCompleted(ctx, rec, ev)
	})
}

// restart relaunches the identical share of a killed worker.
func (s *Supervisor) restart(dead WorkerRecord, lifetime float64) {
	if limit := s.cfg.Restart.MaxRestarts; limit > 0 && s.records.Restarts(dead.Index) >= limit {
		err := fmt.Errorf("%w: index %d after %d restarts", ErrRestartLimitExceeded, dead.Index, limit)
		s.logError("restart limit exceeded, giving up share",
			"worker_id", dead.WorkerID, "index", dead.Index, "share", dead.Share.String())
		s.metrics.RecordWorkerTermination(outcomeAbandoned, lifetime)
		s.reportError(err)

		return
	}
	s.metrics.RecordWorkerTermination(outcomeKilled, lifetime)

	plan := s.plan.Load()
	a, ok := plan.Assignment(dead.Index, dead.Attempt+1, s.runID)
	if !ok {
		s.logError("killed worker has no share in plan", "worker_id", dead.WorkerID, "index", dead.Index)
		return
	}

	h, err := s.launcher.Launch(s.ctx, a)
	if err != nil {
		s.metrics.RecordLaunchFailure(dead.Index)
		if s.stopping.Load() {
			s.logger.Info("restart skipped during shutdown", "index", dead.Index, "error", err)
			return
		}
		s.logError("failed to restart worker", "index", dead.Index, "attempt", a.Attempt, "error", err)
		s.reportError(fmt.Errorf("%w: index %d: %w", ErrLaunchFailed, dead.Index, err))

		return
	}

	s.records.IncRestarts(dead.Index)
	replacement := s.track(h, a)
	s.metrics.RecordWorkerLaunch(dead.Index, true)

	s.logger.Info("worker terminated, restarting",
		"worker_id", dead.WorkerID,
		"index", dead.Index,
		"replacement_id", replacement.WorkerID,
		"attempt", a.Attempt,
		"share", a.Share.String(),
	)
	s.runHook("OnWorkerRestarted", func(ctx context.Context) error {
		return s.hooks.OnWorkerRestarted(ctx, dead, replacement)
	})
}

// transitionState transitions to a new state and triggers hooks.
func (s *Supervisor) transitionState(from, to State) {
	if !isValidTransition(from, to) {
		s.logError("invalid state transition attempted",
			"from", from.String(),
			"to", to.String(),
		)

		return
	}

	s.state.Store(int32(to)) //nolint:gosec // State values are controlled enum

	now := time.Now()
	duration := now.Sub(s.stateSince).Seconds()
	s.stateSince = now

	s.logger.Info("state transition",
		"from", from.String(),
		"to", to.String(),
		"run_id", s.runID,
	)

	s.runHook("OnStateChanged", func(ctx context.Context) error {
		return s.hooks.OnStateChanged(ctx, from, to)
	})

	s.metrics.RecordStateTransition(from, to, duration)
}

// isValidTransition validates that a state transition is allowed.
func isValidTransition(from, to State) bool {
	switch from {
	case StateInit:
		return to == StateRunning || to == StateStopped
	case StateRunning:
		return to == StateDraining
	case StateDraining:
		return to == StateStopped
	default:
		return false
	}
}

// runHook runs fn in the background and tracks it so Stopped waits for it.
func (s *Supervisor) runHook(name string, fn func(ctx context.Context) error) {
	s.hookWg.Add(1)
	go func() {
		defer s.hookWg.Done()
		if err := fn(s.ctx); err != nil {
			s.logError("hook error", "hook", name, "error", err)
		}
	}()
}

func (s *Supervisor) reportError(err error) {
	s.runHook("OnError", func(ctx context.Context) error {
		return s.hooks.OnError(ctx, err)
	})
}

// logError logs an error message.
func (s *Supervisor) logError(msg string, keysAndValues ...any) {
	// Logger is always non-nil (defaults to nopLogger)
	s.logger.Error(msg, keysAndValues...)
}
