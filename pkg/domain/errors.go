package domain

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a domain error so callers can branch on it
// without string matching.
type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeUnavailable       Code = "UNAVAILABLE"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeDuplicateReview   Code = "DUPLICATE_REVIEW"
	CodeInvalidState      Code = "INVALID_STATE"
	CodeForbidden         Code = "FORBIDDEN"
	CodeConflict          Code = "CONFLICT"
	CodeInconsistentState Code = "INCONSISTENT_STATE"
)

// Error is a domain-level failure with a machine-readable code and a
// human-readable message. Every expected rejection in the service is one of
// these; anything else is an infrastructure fault.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFoundError reports a missing entity of the given kind.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewValidationError reports caller-correctable bad input.
func NewValidationError(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NewUnavailableError reports a date-range conflict or availability-window miss.
func NewUnavailableError(msg string) *Error {
	return &Error{Code: CodeUnavailable, Message: msg}
}

// NewInsufficientFundsError reports a payer balance below the required amount.
func NewInsufficientFundsError(msg string) *Error {
	return &Error{Code: CodeInsufficientFunds, Message: msg}
}

// NewDuplicateReviewError reports a second review for the same booking and role.
func NewDuplicateReviewError(msg string) *Error {
	return &Error{Code: CodeDuplicateReview, Message: msg}
}

// NewInvalidStateError reports a disallowed status transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewForbiddenError reports an operation on an entity the caller does not own.
func NewForbiddenError(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// NewConflictError reports a write conflict (optimistic lock or duplicate side effect).
func NewConflictError(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// NewInconsistentStateError reports a partial multi-entity update that needs
// reconciliation rather than a retry.
func NewInconsistentStateError(msg string) *Error {
	return &Error{Code: CodeInconsistentState, Message: msg}
}

// CodeOf extracts the domain code from err, or empty string if err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
