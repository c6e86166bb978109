// Package errors provides structured, code-tagged errors for lanwatch.
// Every failure the discovery engine can produce maps to an ErrorCode so that
// callers can decide whether to drop a host, fall back to a sentinel value,
// retry a save or surface the error to the user.
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
	CodePermission    ErrorCode = "PERMISSION"

	// Scanning errors.
	CodeHostUnreachable ErrorCode = "HOST_UNREACHABLE"
	CodePortClosed      ErrorCode = "PORT_CLOSED"
	CodeBannerFailed    ErrorCode = "BANNER_FAILED"
	CodeScanFailed      ErrorCode = "SCAN_FAILED"
	CodeScanInProgress  ErrorCode = "SCAN_IN_PROGRESS"
	CodeTargetInvalid   ErrorCode = "TARGET_INVALID"

	// Name and hardware address resolution.
	CodeLookupFailed ErrorCode = "LOOKUP_FAILED"

	// Snapshot storage.
	CodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	CodeSnapshotCorrupt   ErrorCode = "SNAPSHOT_CORRUPT"

	// Lookups by address.
	CodeNotFound ErrorCode = "NOT_FOUND"
)

// ScanError represents an error that occurred while probing a host.
type ScanError struct {
	Code      ErrorCode
	Message   string
	Target    string
	Operation string
	Cause     error
	Context   map[string]any
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

// WithContext adds context information to the error.
func (e *ScanError) WithContext(key string, value any) *ScanError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithOperation records the pipeline stage that failed.
func (e *ScanError) WithOperation(op string) *ScanError {
	e.Operation = op
	return e
}

// NewScanError creates a new scan error with the specified code and message.
func NewScanError(code ErrorCode, message string) *ScanError {
	return &ScanError{Code: code, Message: message}
}

// NewScanErrorWithTarget creates a scan error for a specific target.
func NewScanErrorWithTarget(code ErrorCode, message, target string) *ScanError {
	return &ScanError{Code: code, Message: message, Target: target}
}

// WrapScanError wraps an existing error as a scan error.
func WrapScanError(code ErrorCode, message string, err error) *ScanError {
	return &ScanError{Code: code, Message: message, Cause: err}
}

// WrapScanErrorWithTarget wraps an error with target information.
func WrapScanErrorWithTarget(code ErrorCode, message, target string, err error) *ScanError {
	return &ScanError{Code: code, Message: message, Target: target, Cause: err}
}

// LookupError is returned when a hostname or hardware address cannot be resolved.
type LookupError struct {
	Code    ErrorCode
	Message string
	Address string
	Source  string
	Cause   error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Source != "" {
		msg = fmt.Sprintf("%s (source: %s)", msg, e.Source)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *LookupError) Unwrap() error {
	return e.Cause
}

// NewLookupError creates a lookup failure for address from the given source.
func NewLookupError(address, source string, err error) *LookupError {
	return &LookupError{
		Code:    CodeLookupFailed,
		Message: "lookup failed for " + address,
		Address: address,
		Source:  source,
		Cause:   err,
	}
}

// PersistenceError represents snapshot load and save failures.
type PersistenceError struct {
	Code      ErrorCode
	Message   string
	Operation string
	Location  string
	Cause     error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
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
func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// WithLocation records the file path or DSN host involved.
func (e *PersistenceError) WithLocation(location string) *PersistenceError {
	e.Location = location
	return e
}

// WrapPersistenceError wraps a storage error.
func WrapPersistenceError(code ErrorCode, operation string, err error) *PersistenceError {
	return &PersistenceError{
		Code:      code,
		Message:   "snapshot " + operation + " failed",
		Operation: operation,
		Cause:     err,
	}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   any
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value any) *ConfigError {
	return &ConfigError{Code: code, Message: message, Field: field, Value: value}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{Code: code, Message: message, Cause: err}
}

// coded is implemented by every error type in this package.
type coded interface {
	errorCode() ErrorCode
}

func (e *ScanError) errorCode() ErrorCode        { return e.Code }
func (e *LookupError) errorCode() ErrorCode      { return e.Code }
func (e *PersistenceError) errorCode() ErrorCode { return e.Code }
func (e *ConfigError) errorCode() ErrorCode      { return e.Code }

// GetCode extracts the first error code found in err's chain.
func GetCode(err error) ErrorCode {
	var c coded
	if stderrors.As(err, &c) {
		return c.errorCode()
	}
	return CodeUnknown
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// IsRetryable reports whether the operation may succeed if tried again.
func IsRetryable(err error) bool {
	switch GetCode(err) {
	case CodeTimeout, CodePersistenceFailed:
		return true
	default:
		return false
	}
}

// IsFatal determines if an error should stop execution.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case CodePermission, CodeConfiguration, CodeSnapshotCorrupt:
		return true
	default:
		return false
	}
}

// ErrHostUnreachable creates an error for unreachable hosts.
func ErrHostUnreachable(target string) *ScanError {
	return NewScanErrorWithTarget(CodeHostUnreachable, "host is unreachable", target).WithOperation("ping")
}

// ErrScanInProgress is returned when a sweep is requested while another runs.
func ErrScanInProgress() *ScanError {
	return NewScanError(CodeScanInProgress, "a scan is already running")
}

// ErrScanCanceled wraps a context error from an interrupted sweep.
func ErrScanCanceled(err error) *ScanError {
	return WrapScanError(CodeCanceled, "scan canceled", err)
}

// ErrDeviceNotFound is returned when an address is not in the registry.
func ErrDeviceNotFound(address string) *ScanError {
	return NewScanErrorWithTarget(CodeNotFound, "device not found", address)
}

// ErrConfigInvalid creates an error for invalid configuration.
func ErrConfigInvalid(field string, value any) *ConfigError {
	return NewConfigFieldError(CodeValidation, "invalid configuration value", field, value)
}
