package dto

import (
	"net/http"

	"github.com/backoffice/backend/internal/domain/shared"
)

// General error codes used by the HTTP layer itself
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Validation failures are the caller's fault and map to 400; invariant
// violations mean the operation would corrupt an aggregate and map to 422;
// state conflicts (including optimistic lock failures) map to 409; a
// missing refund channel dependency maps to 503.
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:            http.StatusBadRequest,
	shared.CodeInvariantViolation:    http.StatusUnprocessableEntity,
	shared.CodeNotFound:              http.StatusNotFound,
	shared.CodeUnauthorized:          http.StatusForbidden,
	shared.CodeStateConflict:         http.StatusConflict,
	shared.CodeDependencyUnavailable: http.StatusServiceUnavailable,

	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewErrorResponseWithRequestID creates an error response carrying the
// request ID for correlation
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	if requestID != "" {
		resp.Error.RequestID = requestID
	}
	return resp
}
