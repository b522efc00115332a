package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of client error.
type ErrorCode string

const (
	// ErrCodeActivationRequired indicates the account exists but has not been activated yet.
	ErrCodeActivationRequired ErrorCode = "activation_required"
	// ErrCodeAuthentication indicates a login attempt failed for any reason other than activation.
	ErrCodeAuthentication ErrorCode = "authentication"
	// ErrCodeSessionRestore indicates the persisted token could not be turned back into a session.
	ErrCodeSessionRestore ErrorCode = "session_restore"
	// ErrCodeValidation indicates invalid input supplied by the caller.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeStorage indicates the persisted client state could not be read or written.
	ErrCodeStorage ErrorCode = "storage"
	// ErrCodeForbidden indicates a navigation was rejected by the guard.
	ErrCodeForbidden ErrorCode = "forbidden"
)

// Sentinels for errors.Is. An AppError matches a sentinel when their codes are equal.
var (
	ErrActivationRequired = &AppError{Code: ErrCodeActivationRequired, Message: "account not activated"}
	ErrAuthentication     = &AppError{Code: ErrCodeAuthentication, Message: "authentication failed"}
	ErrSessionRestore     = &AppError{Code: ErrCodeSessionRestore, Message: "failed to restore session"}
)

// AppError represents a structured client error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific input that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError sentinel with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Cause != nil {
		return false
	}
	return t.Code == e.Code
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific input.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Forbiddenf creates a new Forbidden error with formatted message.
func Forbiddenf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsActivationRequired checks if an error is an ActivationRequired error.
func IsActivationRequired(err error) bool {
	return isCode(err, ErrCodeActivationRequired)
}

// IsAuthentication checks if an error is an Authentication error.
func IsAuthentication(err error) bool {
	return isCode(err, ErrCodeAuthentication)
}

// IsSessionRestore checks if an error is a SessionRestore error.
func IsSessionRestore(err error) bool {
	return isCode(err, ErrCodeSessionRestore)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsStorage checks if an error is a Storage error.
func IsStorage(err error) bool {
	return isCode(err, ErrCodeStorage)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
