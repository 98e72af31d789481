package model

import "fmt"

// Structural error kinds emitted by the schema interpreter.
const (
	KindRequired        = "REQUIRED"
	KindTypeMismatch    = "TYPE_MISMATCH"
	KindPattern         = "PATTERN"
	KindInvalidEnum     = "INVALID_ENUM"
	KindLength          = "LENGTH"
	KindRange           = "RANGE"
	KindNotUnique       = "NOT_UNIQUE"
	KindUnknownProperty = "UNKNOWN_PROPERTY"
	KindInvalidFormat   = "INVALID_FORMAT"
)

// Contextual and business-rule error kinds emitted by the document validator.
const (
	KindDuplicateID        = "DUPLICATE_ID"
	KindNotFound           = "NOT_FOUND"
	KindLimitExceeded      = "LIMIT_EXCEEDED"
	KindMoveOutOfBounds    = "MOVE_OUT_OF_BOUNDS"
	KindLayoutInconsistent = "LAYOUT_INCONSISTENT"
	KindUnknownTransaction = "UNKNOWN_TRANSACTION"
	KindUnknownType        = "UNKNOWN_TYPE"
	KindInternal           = "INTERNAL"
)

// FieldError describes a single validation error. Kind is machine-readable
// and drives recovery strategy selection; Message is for humans only.
type FieldError struct {
	Field       string `json:"field,omitempty"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable,omitempty"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Kind, e.Message)
}

// Standard error codes for the HTTP surface.
const (
	ErrBadRequest      = "BAD_REQUEST"
	ErrNotFound        = "NOT_FOUND"
	ErrValidationError = "VALIDATION_ERROR"
	ErrUnrepairable    = "UNREPAIRABLE"
	ErrInternalError   = "INTERNAL_ERROR"
)

// ErrorEnvelope is the standard error response envelope returned by the
// validation service. It implements the error interface.
type ErrorEnvelope struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// Error implements the error interface.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError returns a BAD_REQUEST error.
func NewBadRequestError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrBadRequest, Message: msg}
}

// NewNotFoundError returns a NOT_FOUND error.
func NewNotFoundError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrNotFound, Message: msg}
}

// NewValidationError returns a VALIDATION_ERROR with field-level details.
func NewValidationError(details []FieldError) *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrValidationError,
		Message: "The document or transaction is invalid",
		Details: details,
	}
}

// NewUnrepairableError returns an UNREPAIRABLE error with the failures that
// survived every recovery attempt.
func NewUnrepairableError(details []FieldError) *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrUnrepairable,
		Message: "The document failed validation and could not be repaired",
		Details: details,
	}
}

// NewInternalError returns an INTERNAL_ERROR.
func NewInternalError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrInternalError,
		Message: "An unexpected error occurred",
	}
}
