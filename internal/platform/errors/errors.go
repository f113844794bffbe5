package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// MetadataField is the metadata key naming the offending input field.
const MetadataField = "field"

const genericFailureMessage = "internal error"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Caller-facing message
	Metadata map[string]string // Additional context, e.g. the invalid field
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Code.Kind() == KindPersistence {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Field returns the input field named by a validation error.
func (e *Error) Field() string {
	if e == nil || e.Metadata == nil {
		return ""
	}
	return e.Metadata[MetadataField]
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithMetadata creates a domain error with both metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
		Cause:    cause,
	}
}

// Validation builds an input error naming the offending field.
func Validation(code Code, field string, message string) *Error {
	return WithMetadata(code, message, map[string]string{MetadataField: field})
}

// NotFound builds a missing-resource error.
func NotFound(code Code, message string) *Error {
	return New(code, message)
}

// Persistence wraps a store failure; the cause is kept for logs only.
func Persistence(operation string, cause error) *Error {
	operation = strings.TrimSpace(operation)
	if operation == "" {
		operation = "store operation"
	}
	return Wrap(CodePersistence, operation+" failed", cause)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if !stderrors.As(err, &appErr) || appErr == nil {
		return nil, false
	}
	return appErr, true
}

// KindOf returns the taxonomy bucket for err.
func KindOf(err error) Kind {
	appErr, ok := As(err)
	if !ok {
		return KindUnknown
	}
	return appErr.Code.Kind()
}

// CodeOf returns the code carried by err, or CodeUnknown.
func CodeOf(err error) Code {
	appErr, ok := As(err)
	if !ok {
		return CodeUnknown
	}
	return appErr.Code
}

// HasKind reports whether err belongs to kind.
func HasKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindCapacityExceeded, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show API callers.
// Persistence and unclassified failures never leak storage details.
func PublicMessage(err error) string {
	appErr, ok := As(err)
	if !ok {
		return genericFailureMessage
	}
	switch appErr.Code.Kind() {
	case KindPersistence, KindUnknown:
		return genericFailureMessage
	default:
		return appErr.Message
	}
}
