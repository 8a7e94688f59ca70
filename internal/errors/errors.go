// Package errors provides the structured error type shared by the overlay builder,
// the packager and the CLI. Errors carry a category so callers can tell a bad
// package name from a broken front matter block or an unreadable file.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory classifies an Error.
type ErrorCategory string

const (
	// CategoryValidation covers malformed identifiers, templates and options. Raised before any I/O.
	CategoryValidation ErrorCategory = "validation"
	// CategoryParse covers malformed front matter blocks.
	CategoryParse ErrorCategory = "parse"
	// CategoryNotFound covers missing source directories and files.
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryIO covers unreadable or unwritable files.
	CategoryIO ErrorCategory = "io"

	CategoryConfig   ErrorCategory = "config"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the operation
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// Error is a structured error with category, severity and context.
type Error struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for Error
type ContextFields map[string]any

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports category equality so errors.Is(err, &Error{Category: CategoryParse}) matches
// any parse error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Category == e.Category
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new Error
func New(category ErrorCategory, severity ErrorSeverity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new Error that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if e, ok := As(err); ok {
		return e.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not an *Error
func GetCategory(err error) ErrorCategory {
	if e, ok := As(err); ok {
		return e.Category
	}
	return CategoryInternal
}
