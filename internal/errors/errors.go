// Package errors provides the error taxonomy shared by the quote engine and
// the collaborators that consume its records.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error.
type Type string

const (
	// TypeConfiguration indicates an invalid quote configuration.
	TypeConfiguration Type = "CONFIGURATION_ERROR"

	// TypeSubmission indicates a failed quote or lead submission.
	TypeSubmission Type = "SUBMISSION_ERROR"

	// TypeRender indicates a failed quote document export.
	TypeRender Type = "RENDER_ERROR"

	// TypeStorage indicates a cart persistence failure.
	TypeStorage Type = "STORAGE_ERROR"

	// TypeNotFound indicates a missing record.
	TypeNotFound Type = "NOT_FOUND"
)

// Error represents a domain error with context.
type Error struct {
	Type      Type           `json:"type"`
	Message   string         `json:"message"`
	Field     string         `json:"field,omitempty"`
	Retryable bool           `json:"retryable"`
	Cause     error          `json:"-"`
	Context   map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new error.
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new formatted error.
func Newf(errType Type, format string, args ...any) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with context.
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType checks if any error in err's chain is of a specific type.
func IsType(err error, t Type) bool {
	e, ok := As(err)
	return ok && e.Type == t
}

// IsRetryable reports whether the caller may retry the failed action as-is.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable
}

// Configuration creates a configuration error for the named input field.
func Configuration(field, message string) *Error {
	return &Error{Type: TypeConfiguration, Field: field, Message: message}
}

// Configurationf creates a formatted configuration error.
func Configurationf(field, format string, args ...any) *Error {
	return Configuration(field, fmt.Sprintf(format, args...))
}

// Submission creates a submission error.
func Submission(message string, retryable bool, cause error) *Error {
	return &Error{Type: TypeSubmission, Message: message, Retryable: retryable, Cause: cause}
}

// Render creates a render error. Exports read stored figures only, so a
// failed render can always be retried.
func Render(message string, cause error) *Error {
	return &Error{Type: TypeRender, Message: message, Retryable: true, Cause: cause}
}

// Storage creates a storage error.
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// NotFound creates a not found error.
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}
