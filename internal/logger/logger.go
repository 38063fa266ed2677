// Package logger provides leveled logging for the wpvhost CLI tool.
//
// Log records go to stderr through a log/slog text handler, separate from
// the user-facing output that goes to stdout. Verbose debugging never
// interferes with prompts, the provisioning summary or JSON output.
//
// # Log Levels
//
// Four log levels are supported, in order of severity:
//   - Debug: Detailed information for debugging
//   - Info: General operational information
//   - Warn: Warning conditions that don't prevent operation
//   - Error: Error conditions that affect operation
//
// # Initialization
//
// Initialize the logger based on the --verbose flag:
//
//	logger.Init(verbose)  // verbose=true enables Debug level
//
// By default (verbose=false), only Warn and Error messages are shown.
//
// # Usage
//
//	logger.Debug("Loading config from %s", path)
//	logger.Info("Running step %s", name)
//	logger.Warn("Config file not found, using defaults")
//	logger.Error("Failed to reload nginx: %v", err)
//
// Structured logging with fields:
//
//	logger.DebugFields("Command finished", map[string]interface{}{
//	    "command":  "nginx -t",
//	    "duration": elapsed,
//	})
//
// # Output Format
//
// Records use the slog text format:
//
//	time=2026-02-03T10:30:45.000+00:00 level=DEBUG msg="Loading configuration"
//	time=2026-02-03T10:30:45.000+00:00 level=DEBUG msg="Command finished" command="nginx -t" duration=12ms
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Logger wraps a slog.Logger whose level can change at runtime.
type Logger struct {
	level   Level
	leveler *slog.LevelVar
	slog    *slog.Logger
	mu      sync.RWMutex
}

func newLogger(w io.Writer) *Logger {
	l := &Logger{level: LevelWarn, leveler: new(slog.LevelVar)}
	l.leveler.Set(slog.LevelWarn)
	l.slog = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.leveler}))
	return l
}

// Global logger instance.
var std = newLogger(os.Stderr)

// Init initializes the global logger with the specified verbosity.
// When verbose is true, Debug and Info levels are enabled.
func Init(verbose bool) {
	if verbose {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelWarn)
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
	std.leveler.Set(level.slog())
}

// SetOutput sets the output destination for the global logger.
// A nil writer restores os.Stderr.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	std.mu.Lock()
	defer std.mu.Unlock()
	std.slog = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: std.leveler}))
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.level
}

// Slog returns the underlying slog.Logger.
func Slog() *slog.Logger {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.slog
}

func (l *Logger) log(level Level, msg string, attrs ...slog.Attr) {
	l.mu.RLock()
	sl := l.slog
	l.mu.RUnlock()
	sl.LogAttrs(context.Background(), level.slog(), msg, attrs...)
}

func (l *Logger) logFields(level Level, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	l.log(level, msg, attrs...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	std.log(LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	std.log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.log(LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.log(LevelError, fmt.Sprintf(format, args...))
}

// DebugFields logs a debug message with structured fields.
func DebugFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelDebug, msg, fields)
}

// InfoFields logs an informational message with structured fields.
func InfoFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelInfo, msg, fields)
}

// WarnFields logs a warning message with structured fields.
func WarnFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelWarn, msg, fields)
}

// ErrorFields logs an error message with structured fields.
func ErrorFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelError, msg, fields)
}

// LogError logs err at Error level with msg as context.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.log(LevelError, msg, slog.String("err", err.Error()))
}
