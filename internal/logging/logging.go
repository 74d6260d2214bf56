// Package logging builds the process logger. Output goes to stderr so
// command output on stdout stays pipeable, and warnings are counted so a
// run can report how many lines it had to skip.
package logging

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Counter tracks how many warn-or-worse entries a logger emitted.
type Counter struct {
	warnings atomic.Int64
}

// Warnings returns the number of entries logged at Warn level or above.
func (c *Counter) Warnings() int {
	return int(c.warnings.Load())
}

type countingCore struct {
	zapcore.Core
	counter *Counter
}

func (c *countingCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if entry.Level >= zapcore.WarnLevel {
		c.counter.warnings.Add(1)
	}
	return c.Core.Check(entry, ce)
}

func (c *countingCore) With(fields []zapcore.Field) zapcore.Core {
	return &countingCore{Core: c.Core.With(fields), counter: c.counter}
}

// New returns a console logger writing to stderr. Verbose enables debug
// output; otherwise only warnings and errors are shown so normal runs stay
// quiet. The returned Counter reflects warnings emitted through the logger.
func New(verbose bool) (*zap.Logger, *Counter) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	counter := &Counter{}
	return zap.New(&countingCore{Core: core, counter: counter}), counter
}
