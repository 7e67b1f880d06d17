// Package cli implements the act-datamodel command-line interface.
//
// # Commands
//
//   - graph: fetch the ACT type catalogs and render them when they changed
//   - snapshot show|clear: inspect or reset the stored snapshot
//   - completion: shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and handed to every component a command
// builds, so a run logs through a single *log.Logger.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped records ("15:04:05.00") to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch logs how long a command phase took.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

// stop logs msg at level with an "elapsed" field.
func (s stopwatch) stop(level log.Level, msg string, keyvals ...any) {
	elapsed := time.Since(s.start).Round(time.Millisecond)
	s.logger.Log(level, msg, append(keyvals, "elapsed", elapsed)...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
