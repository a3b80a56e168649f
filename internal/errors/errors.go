// Package errors provides centralized error definitions and error handling
// utilities for lanes: sentinel errors and semantic error types that carry
// the session, path, or field involved.
//
// # Error Taxonomy
//
// State persistence in lanes is auxiliary to the primary session workflow,
// so most errors defined here are logged and then degraded to a safe default
// by the caller rather than returned to the user:
//   - ValidationError: malformed session names, unsafe folder paths, wrong-typed fields
//   - StorageError: I/O failures reading or writing session, status, or registry files
//   - TimeoutError: a serialized task did not finish within its deadline
//   - SessionError: failures in the session creation flow
//
// # Usage
//
//	err := errors.NewValidationError("session name must be a single path component").
//	    WithField("sessionName").WithValue(name).WithCause(errors.ErrInvalidSessionName)
//
//	if errors.Is(err, errors.ErrInvalidSessionName) { ... }
//
//	var timeout *errors.TimeoutError
//	if errors.As(err, &timeout) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidSessionName indicates a session name that is empty or not a
	// single directory-name component.
	ErrInvalidSessionName = New("invalid session name")
	// ErrUnsafePath indicates a user-configured folder that is absolute or
	// escapes the repository root.
	ErrUnsafePath = New("unsafe path")
	// ErrAlreadyExists indicates that a session or record already exists.
	ErrAlreadyExists = New("already exists")
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrTaskPanicked indicates that a serialized task panicked.
	ErrTaskPanicked = New("task panicked")
)

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

// baseError carries the message and cause shared by every error type here.
type baseError struct {
	message string
	cause   error
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// format renders "<kind> [k=v, ...]: message: cause".
func (e *baseError) format(kind string, parts []string) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// SessionError
// -----------------------------------------------------------------------------

// SessionError represents a failure in a session-level flow such as creation.
//
// Example:
//
//	err := errors.NewSessionError("failed to create worktree", cause).WithSessionName("feature-x")
//	fmt.Println(err) // "session error [session=feature-x]: failed to create worktree: ..."
type SessionError struct {
	baseError
	SessionName string
}

// NewSessionError creates a new SessionError.
func NewSessionError(message string, cause error) *SessionError {
	return &SessionError{
		baseError: baseError{message: message, cause: cause},
	}
}

// WithSessionName adds the session name to the error context.
func (e *SessionError) WithSessionName(name string) *SessionError {
	e.SessionName = name
	return e
}

// Error returns the formatted error message.
func (e *SessionError) Error() string {
	var parts []string
	if e.SessionName != "" {
		parts = append(parts, "session="+e.SessionName)
	}
	return e.format("session error", parts)
}

// -----------------------------------------------------------------------------
// StorageError
// -----------------------------------------------------------------------------

// StorageError represents an I/O failure against a persisted file.
type StorageError struct {
	baseError
	Op   string
	Path string
}

// NewStorageError creates a new StorageError for the given operation and path.
func NewStorageError(op, path string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{message: op + " failed", cause: cause},
		Op:   op,
		Path: path,
	}
}

// Error returns the formatted error message.
func (e *StorageError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, "path="+e.Path)
	}
	return e.format("storage error", parts)
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("contains parent traversal").WithField("promptsFolder").WithValue("../x")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{message: message},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%q", fmt.Sprint(e.Value)))
	}
	return e.format("validation error", parts)
}

// Is reports ErrInvalidInput for every validation error, in addition to the cause chain.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// TimeoutError
// -----------------------------------------------------------------------------

// TimeoutError represents an operation that did not complete in time. The
// operation itself may still finish afterwards; only its result is lost.
//
// Example:
//
//	err := errors.NewTimeoutError("create session feature-x", 30*time.Second)
//	fmt.Println(err) // "timeout error: create session feature-x (timeout: 30s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{message: operation},
		Operation: operation,
		Duration:  duration,
	}
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
}

// Is reports ErrTimeout for every timeout error.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// -----------------------------------------------------------------------------
// Wrapping
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
