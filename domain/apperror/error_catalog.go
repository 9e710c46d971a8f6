package apperror

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	// Authentication Errors (1xxx)
	CodeInvalidCredentials ErrorCode = "AUTH_1001"
	CodeInvalidToken       ErrorCode = "AUTH_1002"
	CodeUnauthorized       ErrorCode = "AUTH_1003"
	CodeForbidden          ErrorCode = "AUTH_1004"

	// Validation Errors (2xxx)
	CodeValidation ErrorCode = "VALID_2001"

	// Rate Limiting Errors (3xxx)
	CodeRateLimited ErrorCode = "RATE_3001"

	// Resource Errors (4xxx)
	CodeConflict ErrorCode = "RES_4001"
	CodeNotFound ErrorCode = "RES_4002"

	// Server Errors (6xxx)
	CodeInternal           ErrorCode = "SERVER_6001"
	CodeInvariantViolation ErrorCode = "SERVER_6002"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Sentinels for errors.Is; any AppError with the same code matches.
var (
	ErrInvalidCredentials = &AppError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}
	ErrInvalidToken       = &AppError{Code: CodeInvalidToken, Message: "Invalid token"}
	ErrUnauthorized       = &AppError{Code: CodeUnauthorized, Message: "Not authenticated"}
	ErrForbidden          = &AppError{Code: CodeForbidden, Message: "Access denied"}
	ErrValidation         = &AppError{Code: CodeValidation, Message: "Validation failed"}
	ErrRateLimited        = &AppError{Code: CodeRateLimited, Message: "Too many requests"}
	ErrConflict           = &AppError{Code: CodeConflict, Message: "Conflict"}
	ErrNotFound           = &AppError{Code: CodeNotFound, Message: "Not found"}
	ErrInternal           = &AppError{Code: CodeInternal, Message: "Internal server error"}
	ErrInvariantViolation = &AppError{Code: CodeInvariantViolation, Message: "Internal server error"}
)

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func InvalidCredentials() *AppError {
	return NewAppError(CodeInvalidCredentials, ErrInvalidCredentials.Message, "", nil)
}

func InvalidToken(cause error) *AppError {
	return NewAppError(CodeInvalidToken, ErrInvalidToken.Message, "", cause)
}

func Unauthorized(message string) *AppError {
	return NewAppError(CodeUnauthorized, message, "", nil)
}

func Forbidden(details string) *AppError {
	return NewAppError(CodeForbidden, ErrForbidden.Message, details, nil)
}

func Validation(message string, cause error) *AppError {
	return NewAppError(CodeValidation, message, "", cause)
}

func RateLimited(message string) *AppError {
	return NewAppError(CodeRateLimited, message, "", nil)
}

func Conflict(message string, cause error) *AppError {
	return NewAppError(CodeConflict, message, "", cause)
}

func NotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, "", nil)
}

func Internal(details string, cause error) *AppError {
	return NewAppError(CodeInternal, ErrInternal.Message, details, cause)
}

// InvariantViolation marks states that should be impossible. Callers log it as a bug.
func InvariantViolation(details string, cause error) *AppError {
	return NewAppError(CodeInvariantViolation, ErrInvariantViolation.Message, details, cause)
}
