package parcel

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Launch modes understood by the CLI.
const (
	ModeGoroutine = "goroutine"
	ModeProcess   = "process"
)

// Sink kinds understood by the CLI.
const (
	SinkStdout    = "stdout"
	SinkNATS      = "nats"
	SinkJetStream = "jetstream"
)

// RestartConfig controls how killed workers are replaced.
type RestartConfig struct {
	// MaxRestarts caps restarts per sequence index.
	//
	// Default: 0 (unbounded). A worker that is killed on every attempt is
	// then restarted forever, which matches the redo-the-whole-share model
	// but can spin when the failure is deterministic.
	MaxRestarts int `yaml:"maxRestarts"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics and /health (empty = disabled).
	Addr string `yaml:"addr"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`
}

// SinkConfig selects where worker output goes.
type SinkConfig struct {
	// Kind is one of "stdout", "nats" or "jetstream".
	Kind string `yaml:"kind"`

	// NATSURL is the server URL for the nats and jetstream sinks.
	NATSURL string `yaml:"natsUrl"`

	// Subject is the subject prefix; values of index i go to "<Subject>.<i>".
	Subject string `yaml:"subject"`

	// Stream is the JetStream stream created for the jetstream sink.
	Stream string `yaml:"stream"`
}

// Config is the configuration for the Supervisor.
//
// All duration fields accept standard Go duration strings like "30s", "5m".
type Config struct {
	// Total is the size of the work range [1, Total]. Zero is valid.
	Total int `yaml:"total"`

	// Units overrides the processing-unit count (0 = ask the UnitCounter).
	Units int `yaml:"units"`

	// Mode selects the launcher: "goroutine" or "process".
	Mode string `yaml:"mode"`

	// ShutdownTimeout bounds Stop when its context carries no deadline.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// Restart controls worker replacement.
	Restart RestartConfig `yaml:"restart"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Sink selects the output destination.
	Sink SinkConfig `yaml:"sink"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Total:           100,
		Units:           0,
		Mode:            ModeGoroutine,
		ShutdownTimeout: 10 * time.Second,
		Restart: RestartConfig{
			MaxRestarts: 0,
		},
		Metrics: MetricsConfig{
			Namespace: "parcel",
		},
		Sink: SinkConfig{
			Kind:    SinkStdout,
			NATSURL: "nats://127.0.0.1:4222",
			Subject: "parcel.values",
			Stream:  "PARCEL",
		},
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Total and Units are left untouched: zero is meaningful for both.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Mode == "" {
		cfg.Mode = defaults.Mode
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = defaults.Metrics.Namespace
	}
	if cfg.Sink.Kind == "" {
		cfg.Sink.Kind = defaults.Sink.Kind
	}
	if cfg.Sink.NATSURL == "" {
		cfg.Sink.NATSURL = defaults.Sink.NATSURL
	}
	if cfg.Sink.Subject == "" {
		cfg.Sink.Subject = defaults.Sink.Subject
	}
	if cfg.Sink.Stream == "" {
		cfg.Sink.Stream = defaults.Sink.Stream
	}
}

// Validate checks configuration constraints.
//
// Negative Total or Units are not rejected here: they are partition input
// and Start reports them as ErrInvalidPartitionInput before launching.
//
// Returns:
//   - error: ErrInvalidConfig wrapped with an explanation, nil if valid
func (cfg *Config) Validate() error {
	switch cfg.Mode {
	case ModeGoroutine, ModeProcess:
	default:
		return fmt.Errorf("%w: mode must be %q or %q, got %q", ErrInvalidConfig, ModeGoroutine, ModeProcess, cfg.Mode)
	}

	if cfg.Restart.MaxRestarts < 0 {
		return fmt.Errorf("%w: MaxRestarts must be >= 0, got %d", ErrInvalidConfig, cfg.Restart.MaxRestarts)
	}

	if cfg.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: ShutdownTimeout must be >= 0, got %v", ErrInvalidConfig, cfg.ShutdownTimeout)
	}

	switch cfg.Sink.Kind {
	case SinkStdout:
	case SinkNATS, SinkJetStream:
		if cfg.Sink.NATSURL == "" || cfg.Sink.Subject == "" {
			return fmt.Errorf("%w: sink %q requires natsUrl and subject", ErrInvalidConfig, cfg.Sink.Kind)
		}
		if cfg.Sink.Kind == SinkJetStream && cfg.Sink.Stream == "" {
			return fmt.Errorf("%w: sink %q requires stream", ErrInvalidConfig, cfg.Sink.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown sink kind %q", ErrInvalidConfig, cfg.Sink.Kind)
	}

	return nil
}

// ValidateWithWarnings logs warnings for valid but risky values.
//
// This is called after Validate() in NewSupervisor() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.Restart.MaxRestarts == 0 {
		logger.Debug("restarts are unbounded; a worker killed on every attempt restarts forever")
	}

	if cfg.Units > 0 && cfg.Total > 0 && cfg.Units > cfg.Total {
		logger.Warn(
			"more units than work items, some workers receive empty shares",
			"units", cfg.Units,
			"total", cfg.Total,
		)
	}

	if cfg.ShutdownTimeout > 0 && cfg.ShutdownTimeout < time.Second {
		logger.Warn(
			"ShutdownTimeout is very short, worker processes may be killed before exiting",
			"shutdownTimeout", cfg.ShutdownTimeout,
			"recommended", "1s or higher",
		)
	}
}

// TestConfig returns a configuration suited to fast test execution.
//
// Returns:
//   - Config: Default configuration with a short shutdown timeout
//
// Example:
//
//	cfg := parcel.TestConfig()
//	cfg.Units = 12
//	sup, err := parcel.NewSupervisor(&cfg, units.NewStatic(12), l)
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.ShutdownTimeout = 2 * time.Second

	return cfg
}

// LoadConfig reads a YAML configuration file.
//
// Values absent from the file keep their DefaultConfig value, so an
// explicit `total: 0` is honored while an omitted total stays 100.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - *Config: Parsed, defaulted and validated configuration
//   - error: Read, parse or validation error
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	SetDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
