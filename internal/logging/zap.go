package logging

import (
	"go.uber.org/zap"

	"github.com/arloliu/parcel/types"
)

// ZapLogger implements types.Logger on top of zap.SugaredLogger.
//
// The sugared logger's plain methods treat their arguments as a message
// template, so every call is routed through the "w" variants which take
// a message followed by key-value pairs.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ types.Logger = (*ZapLogger)(nil)

// NewZap wraps a zap logger.
//
// Parameters:
//   - logger: Base zap logger (zap.NewNop() is substituted for nil)
//
// Returns:
//   - *ZapLogger: Adapter satisfying types.Logger
//
// Example:
//
//	base, _ := zap.NewProduction()
//	defer base.Sync()
//	logger := logging.NewZap(base)
func NewZap(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ZapLogger{sugar: logger.Sugar()}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs an info-level message with optional key-value pairs.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs an error-level message with optional key-value pairs.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Fatal logs a fatal-level message and calls os.Exit(1).
func (l *ZapLogger) Fatal(msg string, keysAndValues ...any) {
	l.sugar.Fatalw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
