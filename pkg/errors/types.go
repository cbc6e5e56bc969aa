package errors

import (
	"fmt"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Pre-flight validation errors
	ErrCodeFileNotFound       ErrorCode = "FILE_NOT_FOUND"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeValidation         ErrorCode = "VALIDATION"

	// Remote service errors
	ErrCodeRateLimited    ErrorCode = "RATE_LIMITED"
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	ErrCodeRemoteService  ErrorCode = "REMOTE_SERVICE"

	// Correction errors
	ErrCodeCorrectionFailed ErrorCode = "CORRECTION_FAILED"

	// Local persistence errors (non-fatal for batch runs)
	ErrCodeWriteFailure ErrorCode = "WRITE_FAILURE"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Common error constructors

// FileNotFound creates a missing-input-file error
func FileNotFound(path string) *AppError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("audio file not found: %s", path)).
		WithDetail("path", path)
}

// InvalidCredentials creates a missing or unusable API key error
func InvalidCredentials(service string) *AppError {
	return New(ErrCodeInvalidCredentials, fmt.Sprintf("%s API key is required", service)).
		WithDetail("service", service)
}

// RateLimited creates a retries-exhausted rate limit error
func RateLimited(service string, attempts int) *AppError {
	return New(ErrCodeRateLimited, fmt.Sprintf("%s rate limit exceeded after %d attempts", service, attempts)).
		WithDetail("service", service).
		WithDetail("attempts", attempts)
}

// NetworkFailure creates a retries-exhausted transport error
func NetworkFailure(service string, attempts int, cause error) *AppError {
	return Wrap(cause, ErrCodeNetworkFailure, fmt.Sprintf("%s unreachable after %d attempts", service, attempts)).
		WithDetail("service", service).
		WithDetail("attempts", attempts)
}

// RemoteServiceError creates a terminal non-2xx response error
func RemoteServiceError(service string, status int, body string) *AppError {
	return New(ErrCodeRemoteService, fmt.Sprintf("%s returned status %d", service, status)).
		WithDetail("service", service).
		WithDetail("status", status).
		WithDetail("body", body)
}

// CorrectionFailed wraps a correction call failure
func CorrectionFailed(cause error) *AppError {
	return Wrap(cause, ErrCodeCorrectionFailed, "transcript correction failed")
}

// WriteFailure wraps an artifact write failure
func WriteFailure(path string, cause error) *AppError {
	return Wrap(cause, ErrCodeWriteFailure, fmt.Sprintf("failed to write artifact: %s", path)).
		WithDetail("path", path)
}

// ValidationError creates a pre-flight validation error
func ValidationError(field string, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// Is checks if an error is of a specific type
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
