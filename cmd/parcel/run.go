package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/parcel"
	"github.com/arloliu/parcel/internal/metrics"
	"github.com/arloliu/parcel/launcher"
	"github.com/arloliu/parcel/types"
	"github.com/arloliu/parcel/units"
	"github.com/arloliu/parcel/worker"
)

// loadConfig reads --config when given and applies explicitly set flags on
// top of it.
func (a *app) loadConfig(cmd *cobra.Command) (*parcel.Config, error) {
	var cfg *parcel.Config
	if a.flags.configPath != "" {
		loaded, err := parcel.LoadConfig(a.flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		defaults := parcel.DefaultConfig()
		cfg = &defaults
	}

	applyFlags(cmd, &a.flags, cfg)
	parcel.SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyFlags(cmd *cobra.Command, f *cliFlags, cfg *parcel.Config) {
	changed := cmd.Flags().Changed

	if changed("total") {
		cfg.Total = f.total
	}
	if changed("units") {
		cfg.Units = f.units
	}
	if changed("mode") {
		cfg.Mode = f.mode
	}
	if changed("max-restarts") {
		cfg.Restart.MaxRestarts = f.maxRestarts
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
	if changed("sink") {
		cfg.Sink.Kind = f.sink
	}
	if changed("nats-url") {
		cfg.Sink.NATSURL = f.natsURL
	}
	if changed("subject") {
		cfg.Sink.Subject = f.subject
	}
	if changed("stream") {
		cfg.Sink.Stream = f.stream
	}
}

func (a *app) runSupervisor(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []parcel.Option
	opts = append(opts, parcel.WithLogger(a.logger))

	var server *metrics.Server
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, parcel.WithMetrics(metrics.NewPrometheus(reg, cfg.Metrics.Namespace)))
		server = metrics.NewServer(cfg.Metrics.Addr, reg, a.logger)
	}

	if cfg.Sink.Kind == parcel.SinkJetStream {
		if err := ensureStream(ctx, cfg.Sink); err != nil {
			return err
		}
	}

	var l types.Launcher
	var out types.Sink
	done := func() {}
	switch cfg.Mode {
	case parcel.ModeProcess:
		self, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate worker binary: %w", err)
		}
		l = launcher.NewProcess(self,
			launcher.WithArgs(workerArgs(cfg, &a.flags)...),
			launcher.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
			launcher.WithProcessLogger(a.logger),
		)
	default:
		var closeSink func()
		out, closeSink, err = openSink(cfg.Sink, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeSink()

		crash := crashOptions(&a.flags)
		gl := launcher.NewGoroutine(func(ctx context.Context, as types.Assignment) error {
			return worker.Run(ctx, as, out, crash...)
		}, launcher.WithGoroutineLogger(a.logger))
		l = gl
		done = gl.Wait
	}

	sup, err := parcel.NewSupervisor(cfg, units.NewHost(), l, opts...)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServe := context.WithCancel(gctx)
	defer stopServe()

	if server != nil {
		if err := server.Listen(); err != nil {
			return err
		}
		g.Go(func() error {
			return server.Serve(serveCtx)
		})
	}

	g.Go(func() error {
		defer stopServe()

		return a.supervise(gctx, sup, cfg)
	})

	err = g.Wait()
	done()
	if out != nil {
		if flushErr := out.Flush(context.Background()); flushErr != nil && err == nil {
			err = flushErr
		}
	}

	return err
}

// supervise runs the supervisor until every share is done or ctx ends.
func (a *app) supervise(ctx context.Context, sup *parcel.Supervisor, cfg *parcel.Config) error {
	if err := sup.Start(ctx); err != nil {
		return err
	}

	if a.flags.verify {
		if err := sup.Plan().Covers(); err != nil {
			_ = sup.Stop(context.Background())
			return fmt.Errorf("plan verification failed: %w", err)
		}
		a.logger.Info("plan verified", "total", cfg.Total, "workers", sup.Plan().Workers())
	}

	err := sup.Wait(ctx)
	if err == nil {
		a.logger.Info("all shares done", "run_id", sup.RunID(), "total", cfg.Total, "workers", sup.Plan().Workers())
		return nil
	}
	if !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("interrupted, stopping workers")
	if err := sup.Stop(context.Background()); err != nil {
		return err
	}

	return fmt.Errorf("interrupted: %w", ctx.Err())
}

// workerArgs builds the argument list for "parcel worker" children.
func workerArgs(cfg *parcel.Config, f *cliFlags) []string {
	args := []string{
		"worker",
		"--sink", cfg.Sink.Kind,
		"--nats-url", cfg.Sink.NATSURL,
		"--subject", cfg.Sink.Subject,
		"--stream", cfg.Sink.Stream,
	}
	if f.crashIndex > 0 {
		args = append(args,
			"--crash-index", strconv.Itoa(f.crashIndex),
			"--crash-after", strconv.Itoa(f.crashAfter),
		)
	}
	if f.logFormat != "" {
		args = append(args, "--log-format", f.logFormat)
	}
	if f.verbose {
		args = append(args, "--verbose")
	}

	return args
}

func crashOptions(f *cliFlags) []worker.Option {
	if f.crashIndex <= 0 {
		return nil
	}

	return []worker.Option{worker.WithCrash(f.crashIndex, f.crashAfter)}
}
