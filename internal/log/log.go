// Package log wraps a process-wide zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init configures the package-level logger. Debug mode uses zap's development
// encoder; otherwise JSON output at info level is written to stderr.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	set(l)
	return nil
}

// SetLogger replaces the package-level logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	set(l)
}

func set(l *zap.Logger) {
	sugar = l.Sugar()
}

// Logger returns the sugared logger. It is a no-op logger until Init or
// SetLogger runs.
func Logger() *zap.SugaredLogger {
	return sugar
}

// Sync flushes buffered entries.
func Sync() {
	_ = sugar.Sync()
}

func Debugw(msg string, keysAndValues ...any) {
	Logger().Debugw(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...any) {
	Logger().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...any) {
	Logger().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...any) {
	Logger().Errorw(msg, keysAndValues...)
}
