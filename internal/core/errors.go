package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatConfig     ErrorCategory = "config"     // Invalid or conflicting configuration
	ErrCatValidation ErrorCategory = "validation" // Invalid input
	ErrCatExecution  ErrorCategory = "execution"  // Remote command failure
	ErrCatNetwork    ErrorCategory = "network"    // Connectivity failure
	ErrCatAPI        ErrorCategory = "api"        // Management API failure
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
	Details  map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrConfig creates a configuration error. Configuration errors are fatal
// and must abort startup.
func ErrConfig(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatConfig,
		Code:     code,
		Message:  message,
	}
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatValidation,
		Code:     code,
		Message:  message,
	}
}

// ErrExecution creates an execution error for a failed remote command.
func ErrExecution(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatExecution,
		Code:     code,
		Message:  message,
	}
}

// ErrNetwork creates a network error.
func ErrNetwork(message string) *DomainError {
	return &DomainError{
		Category: ErrCatNetwork,
		Code:     "NETWORK_FAILED",
		Message:  message,
	}
}

// ErrAPI creates a management API error.
func ErrAPI(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatAPI,
		Code:     code,
		Message:  message,
	}
}

// ErrInternal creates an internal error.
func ErrInternal(code, message string) *DomainError {
	return &DomainError{
		Category: ErrCatInternal,
		Code:     code,
		Message:  message,
	}
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeBackendMissing   = "BACKEND_MISSING"
	CodeBackendConflict  = "BACKEND_CONFLICT"
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeNoTargets        = "NO_TARGETS"

	CodeCommandFailed   = "COMMAND_FAILED"
	CodeCommandTimeout  = "COMMAND_TIMEOUT"
	CodeBatchIncomplete = "BATCH_INCOMPLETE"
	CodeEnvVarEmpty     = "ENV_VAR_EMPTY"

	CodeAPIRequest  = "API_REQUEST_FAILED"
	CodeAPIStatus   = "API_UNEXPECTED_STATUS"
	CodeAPIDecode   = "API_DECODE_FAILED"
	CodeAPIKey      = "API_KEY_MISSING"
	CodeAddrResolve = "ADDR_RESOLVE_FAILED"
)
