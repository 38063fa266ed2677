// Package executor runs external commands such as nginx and systemctl.
package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ksyq12/wpvhost/internal/logger"
)

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command and returns its combined output.
	// Cancelling ctx kills the process.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct{}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// Execute runs a command and returns combined output
func (e *SystemExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec %s: %w (%s)", commandLine(name, args), err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// LoggingExecutor logs every command with its duration at debug level
type LoggingExecutor struct {
	Delegate CommandExecutor
}

// NewLoggingExecutor wraps delegate
func NewLoggingExecutor(delegate CommandExecutor) *LoggingExecutor {
	return &LoggingExecutor{Delegate: delegate}
}

// Execute runs the command through the delegate and logs the outcome
func (e *LoggingExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	command := commandLine(name, args)
	startedAt := time.Now()
	logger.Debug("command start: %s", command)

	out, err := e.Delegate.Execute(ctx, name, args...)
	fields := map[string]interface{}{
		"command":  command,
		"duration": time.Since(startedAt).Round(time.Millisecond),
	}
	if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
		fields["output"] = trimmed
	}
	if err != nil {
		fields["err"] = err
		logger.DebugFields("command failed", fields)
		return out, err
	}
	logger.DebugFields("command ok", fields)
	return out, nil
}

// LookPath delegates to the wrapped executor
func (e *LoggingExecutor) LookPath(file string) (string, error) {
	return e.Delegate.LookPath(file)
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) ([]byte, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// String returns the call as a command line
func (c CommandCall) String() string {
	return commandLine(c.Name, c.Args)
}

// Execute calls the mock function
func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// LookPath calls the mock function
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}
