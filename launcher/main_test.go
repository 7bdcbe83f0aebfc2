package launcher

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/arloliu/parcel/sink"
	"github.com/arloliu/parcel/types"
	"github.com/arloliu/parcel/worker"
)

// Environment understood by the helper worker process.
const (
	envTestCrashIndex = "PARCEL_TEST_CRASH_INDEX"
	envTestExitCode   = "PARCEL_TEST_EXIT_CODE"
	envTestBlock      = "PARCEL_TEST_BLOCK"
)

func TestMain(m *testing.M) {
	// The process launcher tests re-execute this test binary as a worker.
	if worker.IsWorkerProcess() {
		os.Exit(helperWorker())
	}

	goleak.VerifyTestMain(m)
}

func helperWorker() int {
	a, err := worker.DecodeEnv(os.LookupEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}

	if raw := os.Getenv(envTestExitCode); raw != "" {
		code, _ := strconv.Atoi(raw)
		return code
	}
	if os.Getenv(envTestBlock) != "" {
		// Default SIGINT disposition terminates the process by signal.
		signal.Reset(os.Interrupt)
		time.Sleep(time.Hour)
	}

	var opts []worker.Option
	if raw := os.Getenv(envTestCrashIndex); raw != "" {
		index, _ := strconv.Atoi(raw)
		opts = append(opts, worker.WithCrash(index, 0))
	}

	ctx := context.Background()
	out := sink.NewWriter(os.Stdout)
	err = worker.Run(ctx, a, out, opts...)
	_ = out.Flush(ctx)
	if types.IsKilled(err) {
		worker.KillSelf()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}
