package dto

import (
	"errors"
	"net/http"

	"github.com/retailops/backend/internal/domain/shared"
)

// Error codes used by the HTTP layer. Domain errors carry their own codes
// (see shared.DomainError); these cover transport-level failures.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Domain codes
// not listed here fall through to 422: they are well-formed requests the
// business rules rejected.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	"INVALID_INPUT":     http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	"ALREADY_EXISTS":    http.StatusConflict,
	// Concurrency conflicts are retryable, so they get 409 rather than 422
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"NOTHING_TO_RECEIVE":   http.StatusUnprocessableEntity,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}

// FromError maps any error to (status, code, message). Domain errors keep
// their code and message; everything else becomes an opaque 500 so internal
// details never leak to clients.
func FromError(err error) (int, string, string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message
	}
	return http.StatusInternalServerError, ErrCodeInternal, "Internal server error"
}
