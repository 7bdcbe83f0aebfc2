package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/parcel"
	parceltest "github.com/arloliu/parcel/testing"
	"github.com/arloliu/parcel/worker"
)

func TestMain(m *testing.M) {
	// Process mode re-executes this test binary as "parcel worker ...".
	if worker.IsWorkerProcess() {
		cmd := newRootCmd()
		cmd.SetArgs(os.Args[1:])
		if err := cmd.Execute(); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}

	os.Exit(m.Run())
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
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

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out, _, err := executeWithLogs(t, args...)

	return out, err
}

// executeWithLogs also returns what was written to the command's stderr,
// which carries the logs with --log-format text.
func executeWithLogs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	out, errOut := &syncBuffer{}, &syncBuffer{}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)

	return out.String(), errOut.String(), err
}

func parseValues(t *testing.T, output string) []int {
	t.Helper()

	var values []int
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		require.NoError(t, err, "line %q", line)
		values = append(values, v)
	}
	slices.Sort(values)

	return values
}

func rangeOf(total int) []int {
	values := make([]int, total)
	for i := range values {
		values[i] = i + 1
	}

	return values
}

func TestRoot_GoroutineMode(t *testing.T) {
	output, err := execute(t, "--total", "20", "--units", "3")
	require.NoError(t, err)
	require.Equal(t, rangeOf(20), parseValues(t, output))
}

func TestRoot_GoroutineModeCrashRestartsShare(t *testing.T) {
	// 20 over 3 units: shares [1,7] [8,14] [15,20]. Index 2 dies after
	// emitting 8, 9 and 10, then is relaunched with the same share.
	output, err := execute(t, "--total", "20", "--units", "3", "--crash-index", "2", "--crash-after", "3")
	require.NoError(t, err)

	values := parseValues(t, output)
	require.Len(t, values, 23)
	require.Equal(t, rangeOf(20), slices.Compact(slices.Clone(values)))

	seen := map[int]int{}
	for _, v := range values {
		seen[v]++
	}
	for v := 1; v <= 20; v++ {
		want := 1
		if v >= 8 && v <= 10 {
			want = 2
		}
		assert.Equal(t, want, seen[v], "value %d", v)
	}
}

func TestRoot_HostUnitsVerified(t *testing.T) {
	output, err := execute(t, "--total", "5", "--verify")
	require.NoError(t, err)
	require.Equal(t, rangeOf(5), parseValues(t, output))
}

func TestRoot_ConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("total: 12\nunits: 4\n"), 0o600))

	output, err := execute(t, "--config", path)
	require.NoError(t, err)
	require.Equal(t, rangeOf(12), parseValues(t, output))

	output, err = execute(t, "--config", path, "--total", "8")
	require.NoError(t, err)
	require.Equal(t, rangeOf(8), parseValues(t, output))
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, err := execute(t, "--mode", "thread")
	require.ErrorIs(t, err, parcel.ErrInvalidConfig)

	_, err = execute(t, "--sink", "kafka")
	require.ErrorIs(t, err, parcel.ErrInvalidConfig)

	_, err = execute(t, "--total=-1")
	require.ErrorIs(t, err, parcel.ErrInvalidPartitionInput)

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRoot_NATSSink(t *testing.T) {
	srv, nc := parceltest.StartEmbeddedNATS(t)

	sub, err := nc.SubscribeSync("parcel.values.>")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	output, err := execute(t, "--total", "10", "--units", "2", "--sink", "nats", "--nats-url", srv.ClientURL())
	require.NoError(t, err)
	require.Empty(t, output)

	perIndex := map[string]int{}
	for range 10 {
		msg, err := sub.NextMsg(5 * time.Second)
		require.NoError(t, err)
		perIndex[msg.Subject]++
	}
	require.Equal(t, map[string]int{"parcel.values.1": 5, "parcel.values.2": 5}, perIndex)
}

func TestRoot_NATSSinkCompletesCleanly(t *testing.T) {
	srv, _ := parceltest.StartEmbeddedNATS(t)

	_, logs, err := executeWithLogs(t, "--total", "8", "--units", "2", "--log-format", "text",
		"--sink", "nats", "--nats-url", srv.ClientURL())
	require.NoError(t, err)
	require.Contains(t, logs, `msg="supervisor stopped"`)
	require.NotContains(t, logs, "failed to flush")
}

func TestRoot_TextLogFormat(t *testing.T) {
	output, logs, err := executeWithLogs(t, "--total", "9", "--units", "3", "--log-format", "text",
		"--crash-index", "3", "--crash-after", "1")
	require.NoError(t, err)
	require.Len(t, parseValues(t, output), 10)
	require.Contains(t, logs, `msg="partition plan computed"`)
	require.Contains(t, logs, "restarts=1")

	_, _, err = executeWithLogs(t, "--log-format", "xml")
	require.ErrorContains(t, err, "unknown log format")
}

func TestRoot_JetStreamSink(t *testing.T) {
	srv, nc := parceltest.StartEmbeddedNATS(t)

	_, err := execute(t, "--total", "9", "--units", "3",
		"--sink", "jetstream", "--nats-url", srv.ClientURL(),
		"--subject", "jobs.values", "--stream", "JOBS")
	require.NoError(t, err)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stream, err := js.Stream(ctx, "JOBS")
	require.NoError(t, err)
	info, err := stream.Info(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(9), info.State.Msgs)
}

func TestRoot_NATSSinkUnreachable(t *testing.T) {
	_, err := execute(t, "--total", "3", "--sink", "nats", "--nats-url", "nats://127.0.0.1:1")
	require.ErrorContains(t, err, "failed to connect to NATS")
}

func TestRoot_MetricsServer(t *testing.T) {
	output, err := execute(t, "--total", "6", "--units", "2", "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, err)
	require.Equal(t, rangeOf(6), parseValues(t, output))
}

func TestWorkerCmd(t *testing.T) {
	t.Setenv(worker.EnvSize, "3")
	t.Setenv(worker.EnvEndOffset, "5")
	t.Setenv(worker.EnvIndex, "2")
	t.Setenv(worker.EnvRunID, "run-1")

	output, err := execute(t, "worker")
	require.NoError(t, err)
	require.Equal(t, "3\n4\n5\n", output)
}

func TestWorkerCmd_MissingEnv(t *testing.T) {
	_, err := execute(t, "worker")
	require.Error(t, err)
}

func TestWorkerArgs(t *testing.T) {
	cfg := parcel.DefaultConfig()
	cfg.Sink.Kind = parcel.SinkNATS

	args := workerArgs(&cfg, &cliFlags{})
	require.Equal(t, []string{
		"worker",
		"--sink", "nats",
		"--nats-url", "nats://127.0.0.1:4222",
		"--subject", "parcel.values",
		"--stream", "PARCEL",
	}, args)

	args = workerArgs(&cfg, &cliFlags{crashIndex: 2, crashAfter: 4, logFormat: "text", verbose: true})
	require.Equal(t, []string{"--crash-index", "2", "--crash-after", "4", "--log-format", "text", "--verbose"}, args[9:])
}

func TestCrashOptions(t *testing.T) {
	require.Empty(t, crashOptions(&cliFlags{}))
	require.Len(t, crashOptions(&cliFlags{crashIndex: 1}), 1)
}
