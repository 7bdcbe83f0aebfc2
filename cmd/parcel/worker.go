package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/parcel"
	"github.com/arloliu/parcel/types"
	"github.com/arloliu/parcel/worker"
)

func (a *app) newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "worker",
		Short:  "Run a single share (launched by parcel in process mode)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE:   a.runWorker,
	}
}

// runWorker emits the share described by the PARCEL_* environment. When the
// crash hook fires the process kills itself so the parent observes an
// abnormal termination rather than an exit code.
func (a *app) runWorker(cmd *cobra.Command, _ []string) error {
	as, err := worker.DecodeEnv(os.LookupEnv)
	if err != nil {
		return err
	}

	cfg := parcel.DefaultConfig()
	applyFlags(cmd, &a.flags, &cfg)

	out, closeSink, err := openSink(cfg.Sink, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeSink()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runErr := worker.Run(ctx, as, out, crashOptions(&a.flags)...)
	if flushErr := out.Flush(context.Background()); flushErr != nil && runErr == nil {
		runErr = flushErr
	}

	if errors.Is(runErr, types.ErrKilled) {
		a.logger.Warn("worker crashing", "index", as.Index, "attempt", as.Attempt, "run_id", as.RunID)
		a.syncLogger()
		worker.KillSelf()
	}
	if runErr != nil {
		return fmt.Errorf("worker %d: %w", as.Index, runErr)
	}

	a.logger.Debug("worker finished", "index", as.Index, "attempt", as.Attempt, "size", as.Share.Size)

	return nil
}
