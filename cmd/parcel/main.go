// Package main is the parcel command line tool.
//
// parcel splits the range [1, total] into one contiguous share per
// processing unit, runs a worker per share and restarts any worker that is
// killed with the identical share until every share has been emitted once.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/parcel"
	"github.com/arloliu/parcel/internal/logging"
	"github.com/arloliu/parcel/types"
)

// Log formats selectable with --log-format.
const (
	logFormatJSON = "json"
	logFormatText = "text"
)

// cliFlags holds every command line flag. Flags that were set explicitly
// override values loaded from --config.
type cliFlags struct {
	configPath  string
	total       int
	units       int
	mode        string
	sink        string
	natsURL     string
	subject     string
	stream      string
	crashIndex  int
	crashAfter  int
	maxRestarts int
	metricsAddr string
	logFormat   string
	verbose     bool
	verify      bool
}

// app carries state shared between the root command and its subcommands.
type app struct {
	flags  cliFlags
	zap    *zap.Logger
	logger types.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "parcel",
		Short: "Split a range of work across processing units and see it through",
		Long: `parcel divides the values 1..total into near-equal contiguous shares,
one per processing unit, and runs a worker for each share. A worker that is
killed is relaunched with exactly the same share; a worker that exits on its
own is considered done.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initLogger(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.syncLogger()
		},
		RunE: a.runSupervisor,
	}

	f := &a.flags
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&f.logFormat, "log-format", logFormatJSON, "Log format: json (zap) or text (slog)")
	rootCmd.PersistentFlags().StringVar(&f.sink, "sink", parcel.SinkStdout, "Output sink: stdout, nats or jetstream")
	rootCmd.PersistentFlags().StringVar(&f.natsURL, "nats-url", "nats://127.0.0.1:4222", "NATS server URL for the nats and jetstream sinks")
	rootCmd.PersistentFlags().StringVar(&f.subject, "subject", "parcel.values", "Subject prefix for the nats and jetstream sinks")
	rootCmd.PersistentFlags().StringVar(&f.stream, "stream", "PARCEL", "JetStream stream name for the jetstream sink")
	rootCmd.PersistentFlags().IntVar(&f.crashIndex, "crash-index", 0, "Sequence index whose first attempt is killed (0 = none)")
	rootCmd.PersistentFlags().IntVar(&f.crashAfter, "crash-after", 0, "Values the crashing worker emits before it is killed")

	rootCmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.Flags().IntVarP(&f.total, "total", "t", 100, "Total amount of work")
	rootCmd.Flags().IntVarP(&f.units, "units", "u", 0, "Processing units (0 = number of CPUs)")
	rootCmd.Flags().StringVarP(&f.mode, "mode", "m", parcel.ModeGoroutine, "Worker mode: goroutine or process")
	rootCmd.Flags().IntVar(&f.maxRestarts, "max-restarts", 0, "Restart limit per sequence index (0 = unbounded)")
	rootCmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address")
	rootCmd.Flags().BoolVar(&f.verify, "verify", false, "Check that the plan covers [1, total] before launching")

	rootCmd.AddCommand(a.newWorkerCmd())

	return rootCmd
}

func (a *app) initLogger(errOut io.Writer) error {
	switch a.flags.logFormat {
	case logFormatJSON:
	case logFormatText:
		level := slog.LevelInfo
		if a.flags.verbose {
			level = slog.LevelDebug
		}
		a.logger = logging.NewSlogText(errOut, level)

		return nil
	default:
		return fmt.Errorf("unknown log format %q (want %q or %q)", a.flags.logFormat, logFormatJSON, logFormatText)
	}

	config := zap.NewProductionConfig()
	if a.flags.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.zap = logger
	a.logger = logging.NewZap(logger)

	return nil
}

func (a *app) syncLogger() {
	if a.zap != nil {
		_ = a.zap.Sync()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
