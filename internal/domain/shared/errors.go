package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error codes for the main failure categories. Validation failures are
// recoverable by the caller; invariant violations indicate a bug or a
// corrupted aggregate and are never silently absorbed.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvariantViolation    = "INVARIANT_VIOLATION"
	CodeNotFound              = "NOT_FOUND"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeStateConflict         = "STATE_CONFLICT"
	CodeDependencyUnavailable = "DEPENDENCY_UNAVAILABLE"
)

// Common domain errors
var (
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists         = NewDomainError(CodeStateConflict, "Resource already exists")
	ErrInvalidInput          = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict   = NewDomainError(CodeStateConflict, "Resource was modified by another process")
	ErrUnauthorized          = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidState          = NewDomainError(CodeStateConflict, "Operation not allowed in current state")
	ErrInsufficientStock     = NewDomainError(CodeValidation, "Insufficient stock available")
	ErrInsufficientBalance   = NewDomainError(CodeInvariantViolation, "Insufficient balance available")
	ErrDependencyUnavailable = NewDomainError(CodeDependencyUnavailable, "A required dependency is not available")
)

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...interface{}) *DomainError {
	return NewDomainErrorf(CodeValidation, format, args...)
}

// NewInvariantViolation creates an invariant violation error. These indicate
// the aggregate would end up in an impossible state (e.g. a negative stock
// bucket) and must abort the surrounding transaction.
func NewInvariantViolation(format string, args ...interface{}) *DomainError {
	return NewDomainErrorf(CodeInvariantViolation, format, args...)
}

// NewStateConflict creates a state conflict error for operations attempted
// in a document state that does not allow them.
func NewStateConflict(format string, args ...interface{}) *DomainError {
	return NewDomainErrorf(CodeStateConflict, format, args...)
}
