// Package errors provides the error type shared by every provisioning step.
//
// ProvisionError carries a Code that tells the command layer how to react:
//
//   - VALIDATION: the user typed something malformed; the prompt asks again
//   - CONFLICT:   the site directory already exists; the user must confirm
//   - INPUT:      stdin closed or an answer was outside the offered choices
//   - EXTERNAL:   a filesystem, service, network or database operation failed
//   - PERMISSION: the run needs root
//   - CONFIG:     the tool configuration is unreadable or inconsistent
//
// Only VALIDATION and CONFLICT are recoverable. Everything else ends the run
// with exit status 1 and no cleanup of earlier steps.
//
// # Usage
//
//	return errors.StepFailed("reload_server", err)
//
//	if errors.Is(err, errors.ErrInvalidDomain) {
//	    // ask again
//	}
//
//	var perr *errors.ProvisionError
//	if errors.As(err, &perr) {
//	    fmt.Println(perr.Step)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeValidation ErrorCode = "VALIDATION" // Input shape rejected
	ErrCodeConflict   ErrorCode = "CONFLICT"   // Resource already present
	ErrCodeInput      ErrorCode = "INPUT"      // Prompt could not be answered
	ErrCodeExternal   ErrorCode = "EXTERNAL"   // External operation failed
	ErrCodePermission ErrorCode = "PERMISSION" // Root required
	ErrCodeConfig     ErrorCode = "CONFIG"     // Tool configuration error
)

// ProvisionError represents a structured error with context about the step.
type ProvisionError struct {
	Code    ErrorCode // Error category
	Step    string    // Provisioning step (if applicable)
	Message string    // Human-readable message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *ProvisionError) Error() string {
	msg := e.Message
	if e.Step != "" {
		if msg == "" {
			msg = fmt.Sprintf("step %s failed", e.Step)
		} else {
			msg = fmt.Sprintf("step %s: %s", e.Step, msg)
		}
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Sentinels match on code and message; a sentinel without a message matches any error of its code.
func (e *ProvisionError) Is(target error) bool {
	t, ok := target.(*ProvisionError)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Sentinel errors for common error scenarios.
var (
	// ErrInvalidDomain indicates the domain failed validation.
	ErrInvalidDomain = &ProvisionError{Code: ErrCodeValidation, Message: "invalid domain"}

	// ErrInvalidPHPVersion indicates the PHP version token is not supported.
	ErrInvalidPHPVersion = &ProvisionError{Code: ErrCodeValidation, Message: "unsupported PHP version"}

	// ErrSiteExists indicates the site directory is already present.
	ErrSiteExists = &ProvisionError{Code: ErrCodeConflict, Message: "site directory already exists"}

	// ErrInputClosed indicates stdin ended while a prompt was waiting.
	ErrInputClosed = &ProvisionError{Code: ErrCodeInput, Message: "input closed"}

	// ErrInvalidAnswer indicates an answer outside the offered choices.
	ErrInvalidAnswer = &ProvisionError{Code: ErrCodeInput, Message: "invalid answer"}

	// ErrRootRequired indicates root privileges are required.
	ErrRootRequired = &ProvisionError{Code: ErrCodePermission, Message: "this operation requires root privileges. Please run with sudo"}

	// ErrConfigInvalid indicates the configuration is invalid.
	ErrConfigInvalid = &ProvisionError{Code: ErrCodeConfig, Message: "invalid configuration"}

	// ErrStepFailed matches any failed provisioning step.
	ErrStepFailed = &ProvisionError{Code: ErrCodeExternal}
)

// InvalidDomain creates a validation error for name.
func InvalidDomain(name string) error {
	return &ProvisionError{
		Code:    ErrCodeValidation,
		Message: "invalid domain",
		Err:     fmt.Errorf("%q", name),
	}
}

// InvalidPHPVersion creates a validation error for token.
func InvalidPHPVersion(token string) error {
	return &ProvisionError{
		Code:    ErrCodeValidation,
		Message: "unsupported PHP version",
		Err:     fmt.Errorf("%q", token),
	}
}

// InvalidAnswer creates an input error for an answer outside the offered choices.
func InvalidAnswer(question, answer string) error {
	return &ProvisionError{
		Code:    ErrCodeInput,
		Message: "invalid answer",
		Err:     fmt.Errorf("%q to %q", answer, question),
	}
}

// InputClosed wraps a read failure while prompting.
func InputClosed(err error) error {
	return &ProvisionError{
		Code:    ErrCodeInput,
		Message: "input closed",
		Err:     err,
	}
}

// SiteExists creates a conflict error for dir.
func SiteExists(dir string) error {
	return &ProvisionError{
		Code:    ErrCodeConflict,
		Message: "site directory already exists",
		Err:     fmt.Errorf("%s", dir),
	}
}

// Config wraps a configuration problem.
func Config(msg string, err error) error {
	return &ProvisionError{
		Code:    ErrCodeConfig,
		Message: msg,
		Err:     err,
	}
}

// StepFailed creates an external error naming the failed step.
func StepFailed(step string, err error) error {
	return &ProvisionError{
		Code: ErrCodeExternal,
		Step: step,
		Err:  err,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &ProvisionError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// CodeOf returns the code of the first ProvisionError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var perr *ProvisionError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ""
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
