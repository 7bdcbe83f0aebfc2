//go:build unix

package launcher

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parcel/types"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func newTestProcess(t *testing.T, out *syncBuffer, env ...string) *Process {
	t.Helper()

	return NewProcess(os.Args[0],
		WithArgs("-test.run=^$"),
		WithEnv(env...),
		WithOutput(out, out),
		WithWaitDelay(2*time.Second),
	)
}

func TestProcess_Completes(t *testing.T) {
	out := &syncBuffer{}
	p := newTestProcess(t, out)

	h, err := p.Launch(context.Background(), testAssignment(3))
	require.NoError(t, err)
	require.NotEmpty(t, h.ID())

	ev := requireTerminated(t, collect(t, h))
	require.Equal(t, types.ReasonExit, ev.Reason)
	require.Equal(t, 0, ev.ExitCode)
	require.Equal(t, "19\n20\n21\n22\n23\n24\n25\n26\n27\n", out.String())
	require.Equal(t, 0, p.Active())
}

func TestProcess_SelfKillIsKilled(t *testing.T) {
	out := &syncBuffer{}
	p := newTestProcess(t, out, envTestCrashIndex+"=3")

	h, err := p.Launch(context.Background(), testAssignment(3))
	require.NoError(t, err)

	ev := requireTerminated(t, collect(t, h))
	require.Equal(t, types.ReasonKilled, ev.Reason)
	require.Empty(t, strings.TrimSpace(out.String()))
}

func TestProcess_RestartAttemptCompletes(t *testing.T) {
	out := &syncBuffer{}
	p := newTestProcess(t, out, envTestCrashIndex+"=3")

	a := testAssignment(3)
	a.Attempt = 1
	h, err := p.Launch(context.Background(), a)
	require.NoError(t, err)

	ev := requireTerminated(t, collect(t, h))
	require.Equal(t, types.ReasonExit, ev.Reason)
	require.Contains(t, out.String(), "27\n")
}

func TestProcess_NonZeroExit(t *testing.T) {
	out := &syncBuffer{}
	p := newTestProcess(t, out, envTestExitCode+"=7")

	h, err := p.Launch(context.Background(), testAssignment(1))
	require.NoError(t, err)

	ev := requireTerminated(t, collect(t, h))
	require.Equal(t, types.ReasonExit, ev.Reason)
	require.Equal(t, 7, ev.ExitCode)
}

func TestProcess_CancelInterrupts(t *testing.T) {
	out := &syncBuffer{}
	p := newTestProcess(t, out, envTestBlock+"=1")

	ctx, cancel := context.WithCancel(context.Background())
	h, err := p.Launch(ctx, testAssignment(1))
	require.NoError(t, err)

	first := <-h.Events()
	require.Equal(t, types.EventOnline, first.Kind)
	cancel()

	var last types.LifecycleEvent
	for ev := range h.Events() {
		last = ev
	}
	require.Equal(t, types.EventTerminated, last.Kind)
	require.Equal(t, types.ReasonSignaled, last.Reason)
}

func TestProcess_Kill(t *testing.T) {
	out := &syncBuffer{}
	p := newTestProcess(t, out, envTestBlock+"=1")

	h, err := p.Launch(context.Background(), testAssignment(1))
	require.NoError(t, err)
	require.Equal(t, 1, p.Active())

	require.NoError(t, p.Kill(h.ID()))

	ev := requireTerminated(t, collect(t, h))
	require.Equal(t, types.ReasonKilled, ev.Reason)
	require.ErrorIs(t, p.Kill(h.ID()), types.ErrUnknownWorker)
}

func TestProcess_StartFailure(t *testing.T) {
	p := NewProcess("/nonexistent/parcel-worker")

	_, err := p.Launch(context.Background(), testAssignment(1))
	require.Error(t, err)
}
