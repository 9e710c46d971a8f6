// Package httperror turns application errors into HTTP status codes and
// client-safe messages.
package httperror

import (
	"errors"
	"net/http"

	"github.com/pizzastore/pizzastore/domain/apperror"
)

const internalMessage = "Internal server error"

var statusByCode = map[apperror.ErrorCode]int{
	apperror.CodeInvalidCredentials: http.StatusUnauthorized,
	apperror.CodeInvalidToken:       http.StatusUnauthorized,
	apperror.CodeUnauthorized:       http.StatusUnauthorized,
	apperror.CodeForbidden:          http.StatusForbidden,
	apperror.CodeValidation:         http.StatusUnprocessableEntity,
	apperror.CodeRateLimited:        http.StatusTooManyRequests,
	apperror.CodeConflict:           http.StatusConflict,
	apperror.CodeNotFound:           http.StatusNotFound,
	apperror.CodeInternal:           http.StatusInternalServerError,
	apperror.CodeInvariantViolation: http.StatusInternalServerError,
}

// From returns the status and message to send for err. Server-side failures
// never expose their details.
func From(err error) (int, string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, internalMessage
	}
	status, ok := statusByCode[appErr.Code]
	if !ok || status == http.StatusInternalServerError {
		return http.StatusInternalServerError, internalMessage
	}
	return status, appErr.Message
}

// IsServerError reports whether err maps to a 5xx response.
func IsServerError(err error) bool {
	status, _ := From(err)
	return status >= http.StatusInternalServerError
}
