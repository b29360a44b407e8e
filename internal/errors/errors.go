// Package errors provides structured error handling for escudo operations.
// It defines error codes, typed errors for scanning, persistence and
// authentication, and helpers for classifying them at the API boundary.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"
	CodeTimeout       ErrorCode = "TIMEOUT"
	CodeCanceled      ErrorCode = "CANCELED"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeConflict      ErrorCode = "CONFLICT"

	// Scanning errors.
	CodeTargetInvalid   ErrorCode = "TARGET_INVALID"
	CodeToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
	CodeScanFailed      ErrorCode = "SCAN_FAILED"

	// Database errors.
	CodeDatabaseConnection ErrorCode = "DATABASE_CONNECTION"
	CodeDatabaseQuery      ErrorCode = "DATABASE_QUERY"
	CodeDatabaseMigration  ErrorCode = "DATABASE_MIGRATION"

	// Authentication errors.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// ScanError represents an error that occurred while validating a target or
// running the scanner.
type ScanError struct {
	Code    ErrorCode
	Message string
	Target  string
	Cause   error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Target != "" {
		msg = fmt.Sprintf("%s (target: %s)", msg, e.Target)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// NewScanError creates a new scan error with the specified code and message.
func NewScanError(code ErrorCode, message string) *ScanError {
	return &ScanError{Code: code, Message: message}
}

// WrapScanError wraps an existing error as a scan error.
func WrapScanError(code ErrorCode, message string, err error) *ScanError {
	return &ScanError{Code: code, Message: message, Cause: err}
}

// WrapScanErrorWithTarget wraps an error with target information.
func WrapScanErrorWithTarget(code ErrorCode, message, target string, err error) *ScanError {
	return &ScanError{Code: code, Message: message, Target: target, Cause: err}
}

// DatabaseError represents persistence failures. Message is safe to show to
// API clients; Cause keeps the driver error for logs.
type DatabaseError struct {
	Code      ErrorCode
	Message   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Operation != "" {
		msg = fmt.Sprintf("%s (operation: %s)", msg, e.Operation)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// NewDatabaseError creates a new database error.
func NewDatabaseError(code ErrorCode, message string) *DatabaseError {
	return &DatabaseError{Code: code, Message: message}
}

// WrapDatabaseError wraps an existing error as a database error.
func WrapDatabaseError(code ErrorCode, message string, err error) *DatabaseError {
	return &DatabaseError{Code: code, Message: message, Cause: err}
}

// AuthError represents failures to resolve a caller to an identity, and
// signup/login input problems.
type AuthError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// NewAuthError creates a new authentication error.
func NewAuthError(code ErrorCode, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

// WrapAuthError wraps an existing error as an authentication error.
func WrapAuthError(code ErrorCode, message string, err error) *AuthError {
	return &AuthError{Code: code, Message: message, Cause: err}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value interface{}) *ConfigError {
	return &ConfigError{Code: code, Message: message, Field: field, Value: value}
}

// Utility functions for common error operations

// GetCode extracts the error code from the first typed error in the chain.
func GetCode(err error) ErrorCode {
	var scanErr *ScanError
	if stderrors.As(err, &scanErr) {
		return scanErr.Code
	}
	var dbErr *DatabaseError
	if stderrors.As(err, &dbErr) {
		return dbErr.Code
	}
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr.Code
	}
	var cfgErr *ConfigError
	if stderrors.As(err, &cfgErr) {
		return cfgErr.Code
	}
	return CodeUnknown
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	return IsCode(err, CodeConflict)
}

// IsTimeout reports whether any scan error in the chain is a timeout.
func IsTimeout(err error) bool {
	for err != nil {
		var scanErr *ScanError
		if !stderrors.As(err, &scanErr) {
			return false
		}
		if scanErr.Code == CodeTimeout {
			return true
		}
		err = scanErr.Cause
	}
	return false
}

// IsPersistence reports whether err came from the storage layer.
func IsPersistence(err error) bool {
	var dbErr *DatabaseError
	return stderrors.As(err, &dbErr)
}

// IsRetryable determines if an error indicates a condition the caller may
// retry without changing its input.
func IsRetryable(err error) bool {
	if IsPersistence(err) {
		return !IsConflict(err) && !IsNotFound(err) && !IsCode(err, CodeValidation)
	}
	switch GetCode(err) {
	case CodeScanFailed, CodeTimeout:
		return true
	default:
		return false
	}
}

// Common error creation functions

// ErrInvalidTarget creates an error for a malformed scan target.
func ErrInvalidTarget(target string, err error) *ScanError {
	return WrapScanErrorWithTarget(CodeTargetInvalid, "Invalid target: must be an IPv4 or IPv6 address", target, err)
}

// ErrToolUnavailable creates an error for a scanner that cannot be initialized.
func ErrToolUnavailable(err error) *ScanError {
	return WrapScanError(CodeToolUnavailable, "nmap is not available on the server", err)
}

// ErrScanFailed creates an error for a scan that failed while running.
func ErrScanFailed(target string, err error) *ScanError {
	return WrapScanErrorWithTarget(CodeScanFailed, "Scan failed", target, err)
}

// ErrScanTimeout creates the cause attached to a scan that ran past its deadline.
func ErrScanTimeout(target string) *ScanError {
	return &ScanError{Code: CodeTimeout, Message: "Scan operation timed out", Target: target}
}

// ErrDatabaseConnection creates an error for database connection failures.
func ErrDatabaseConnection(err error) *DatabaseError {
	return WrapDatabaseError(CodeDatabaseConnection, "Failed to connect to database", err)
}

// ErrUnauthorized creates the error returned when credentials cannot be validated.
func ErrUnauthorized(err error) *AuthError {
	return WrapAuthError(CodeUnauthorized, "Could not validate credentials", err)
}

// ErrConfigInvalid creates an error for invalid configuration.
func ErrConfigInvalid(field string, value interface{}) *ConfigError {
	return NewConfigFieldError(CodeValidation, "Invalid configuration value", field, value)
}

// ErrConfigMissing creates an error for missing required configuration.
func ErrConfigMissing(field string) *ConfigError {
	return NewConfigFieldError(CodeConfiguration, "Required configuration field missing", field, nil)
}
