package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError so transports can map it to a status.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeInvalidState    ErrorCode = "INVALID_STATE"
	CodeCommentsClosed  ErrorCode = "COMMENTS_CLOSED"
	CodePaymentRequired ErrorCode = "PAYMENT_REQUIRED"
)

// AppError is a domain error carrying a machine-readable code.
type AppError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another AppError by code, so errors.Is(err, &AppError{Code: CodeNotFound}) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewValidationError reports malformed input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports that an entity could not be resolved.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewForbiddenError reports that the actor lacks the capability for the action.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewConflictError reports a lost update.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewInvalidStateError reports a transition the state machine rejects.
func NewInvalidStateError(from, to string) *AppError {
	return &AppError{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewCommentsClosedError reports that the thread no longer accepts comments.
func NewCommentsClosedError(status string) *AppError {
	return &AppError{Code: CodeCommentsClosed, Message: fmt.Sprintf("comments are closed for %s bookings", status)}
}

// NewPaymentRequiredError reports that the actor's plan does not cover the action.
func NewPaymentRequiredError(message string) *AppError {
	return &AppError{Code: CodePaymentRequired, Message: message}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsForbidden reports whether err is a permission error.
func IsForbidden(err error) bool { return CodeOf(err) == CodeForbidden }

// IsConflict reports whether err is a version conflict.
func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }
