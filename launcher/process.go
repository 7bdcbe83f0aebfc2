package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/parcel/internal/logging"
	"github.com/arloliu/parcel/types"
	"github.com/arloliu/parcel/worker"
)

// DefaultWaitDelay bounds how long a cancelled worker process may take to
// exit after being interrupted before it is killed.
const DefaultWaitDelay = 5 * time.Second

// Process launches each worker as a child process.
//
// The child receives its assignment through the PARCEL_* environment
// variables (see worker.EncodeEnv). Identities are the child's pid.
type Process struct {
	path      string
	args      []string
	env       []string
	stdout    io.Writer
	stderr    io.Writer
	waitDelay time.Duration
	logger    types.Logger
	procs     *xsync.Map[string, *os.Process]
}

var _ types.Launcher = (*Process)(nil)

// ProcessOption configures a Process launcher.
type ProcessOption func(*Process)

// WithArgs sets the arguments passed to the worker binary.
func WithArgs(args ...string) ProcessOption {
	return func(p *Process) {
		p.args = args
	}
}

// WithEnv appends KEY=value pairs to the inherited environment.
func WithEnv(env ...string) ProcessOption {
	return func(p *Process) {
		p.env = append(p.env, env...)
	}
}

// WithOutput sets the child's stdout and stderr (os.Stdout/os.Stderr by default).
func WithOutput(stdout, stderr io.Writer) ProcessOption {
	return func(p *Process) {
		p.stdout = stdout
		p.stderr = stderr
	}
}

// WithWaitDelay overrides DefaultWaitDelay.
func WithWaitDelay(d time.Duration) ProcessOption {
	return func(p *Process) {
		p.waitDelay = d
	}
}

// WithProcessLogger sets the logger used for process lifecycle messages.
func WithProcessLogger(logger types.Logger) ProcessOption {
	return func(p *Process) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProcess creates a launcher that executes path for every assignment.
//
// Parameters:
//   - path: Worker binary, typically os.Executable()
//   - opts: Optional configuration
//
// Returns:
//   - *Process: Launcher instance
//
// Example:
//
//	self, _ := os.Executable()
//	l := launcher.NewProcess(self, launcher.WithArgs("worker"))
func NewProcess(path string, opts ...ProcessOption) *Process {
	p := &Process{
		path:      path,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		waitDelay: DefaultWaitDelay,
		logger:    logging.NewNop(),
		procs:     xsync.NewMap[string, *os.Process](),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Launch starts a child process for a.
//
// Cancelling ctx interrupts the child; if it has not exited after the
// wait delay it is killed.
//
// Parameters:
//   - ctx: Launch context
//   - a: Work assignment
//
// Returns:
//   - types.Handle: Handle whose ID is the child's pid
//   - error: ErrInvalidAssignment or the exec start error
func (p *Process) Launch(ctx context.Context, a types.Assignment) (types.Handle, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	//nolint:gosec // G204: binary and arguments are supplied by the caller
	cmd := exec.CommandContext(ctx, p.path, p.args...)
	cmd.Env = append(os.Environ(), p.env...)
	cmd.Env = append(cmd.Env, worker.EncodeEnv(a)...)
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = p.waitDelay

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker %d: %w", a.Index, err)
	}

	id := strconv.Itoa(cmd.Process.Pid)
	p.procs.Store(id, cmd.Process)
	p.logger.Debug("worker process started", "worker_id", id, "index", a.Index, "attempt", a.Attempt)

	h := newHandle(id)
	h.events <- types.Online(id)
	go func() {
		defer close(h.events)

		err := cmd.Wait()
		p.procs.Delete(id)
		h.events <- classifyExit(id, cmd.ProcessState, err)
	}()

	return h, nil
}

// Kill sends the abnormal-kill signal to the worker process.
//
// Returns:
//   - error: ErrUnknownWorker if id is not running, or the signal error
func (p *Process) Kill(id string) error {
	proc, ok := p.procs.Load(id)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownWorker, id)
	}

	return proc.Kill()
}

// Active returns the number of running worker processes.
func (p *Process) Active() int {
	return p.procs.Size()
}
