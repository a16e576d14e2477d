// Package xlog is the process-wide log sink shared by the pack, builder,
// and command layers. It wraps log/slog — no structured logging library
// appears anywhere in the retrieved example pack, so the standard
// library's own structured logger is used directly rather than adding an
// unmotivated dependency.
package xlog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

var (
	mu     sync.Mutex
	logger *slog.Logger
)

// Initialize installs the process-wide logger, writing leveled text
// records to w. It must precede any other xlog call; calling it again
// replaces the previous logger.
func Initialize(w *os.File) {
	mu.Lock()
	defer mu.Unlock()

	logger = slog.New(slog.NewTextHandler(w, nil))
}

// Finalize releases the process-wide logger. Subsequent log calls go to
// slog's default logger.
func Finalize() {
	mu.Lock()
	defer mu.Unlock()

	logger = nil
}

func get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Sys logs a system-lifecycle message (archive/pack init, shutdown).
func Sys(format string, args ...any) { get().Info(fmt.Sprintf(format, args...), "level", "sys") }

// Dev logs a developer-facing diagnostic below warning severity.
func Dev(format string, args ...any) { get().Debug(fmt.Sprintf(format, args...), "level", "dev") }

// Trace logs fine-grained per-entry tracing, e.g. path rewrites.
func Trace(format string, args ...any) { get().Debug(fmt.Sprintf(format, args...), "level", "trace") }

// Warn logs a recoverable anomaly.
func Warn(format string, args ...any) { get().Warn(fmt.Sprintf(format, args...), "level", "warn") }

// Err logs an operation failure.
func Err(format string, args ...any) { get().Error(fmt.Sprintf(format, args...), "level", "err") }

// Crit logs an unrecoverable failure immediately preceding process abort.
func Crit(format string, args ...any) { get().Error(fmt.Sprintf(format, args...), "level", "cri") }
