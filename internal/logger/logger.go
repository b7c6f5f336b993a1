// Package logger provides structured logging on top of log/slog.
//
// All package-level functions go through DefaultLogger, which writes text
// records to stderr. The initial level comes from the LOG_LEVEL environment
// variable (debug, info, warn, error) and defaults to info.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultLogger is the global structured logger instance.
	DefaultLogger *slog.Logger

	mu    sync.Mutex
	out   io.Writer = os.Stderr
	level slog.LevelVar
)

func init() {
	if lvl, err := ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level.Set(lvl)
	}
	rebuild()
}

func rebuild() {
	DefaultLogger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: &level}))
}

// ParseLevel converts a level name to a slog.Level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// SetLevel changes the level for all subsequent records.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetVerbose switches between debug and info.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// SetOutput redirects DefaultLogger, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return DefaultLogger.With(args...)
}

func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

func Debug(msg string, args ...any) {
	DefaultLogger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}

// RunFinished logs the outcome of a solver run.
func RunFinished(id, status string, iters int, elapsed time.Duration, attrs ...any) {
	all := make([]any, 0, 8+len(attrs))
	all = append(all,
		"run_id", id,
		"status", status,
		"iterations", iters,
		"elapsed", elapsed,
	)
	all = append(all, attrs...)
	Info("run finished", all...)
}
