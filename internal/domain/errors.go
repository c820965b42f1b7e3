package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies engine failures for callers that map them onto a
// transport (HTTP status, CLI exit code).
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindParse      ErrorKind = "parse_error"
	KindValidation ErrorKind = "validation_error"
	KindConflict   ErrorKind = "conflict"
	KindCancelled  ErrorKind = "cancelled"
	KindInternal   ErrorKind = "internal"
)

// Error is the structured failure record every engine operation returns on
// the error path. OutlineNumber and Field are set when the failure points at
// a specific task or task field.
type Error struct {
	Kind          ErrorKind
	Message       string
	OutlineNumber string
	Field         string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.OutlineNumber != "" {
		fmt.Fprintf(&b, " [task %s]", e.OutlineNumber)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (%s)", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// NotFoundErr builds a KindNotFound error.
func NotFoundErr(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// ParseErr builds a KindParse error.
func ParseErr(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

// InternalErr wraps an unexpected store or I/O failure.
func InternalErr(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error()}
}

// CancelledErr builds a KindCancelled error from a context error.
func CancelledErr(err error) *Error {
	return &Error{Kind: KindCancelled, Message: err.Error()}
}

// ConflictErr builds a KindConflict error.
func ConflictErr(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// ValidationErrors is the full set of invariant violations found by the
// validator. The engine never short-circuits on the first violation.
type ValidationErrors []Error

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(v))
	for i := range v {
		msgs[i] = v[i].Error()
	}
	return fmt.Sprintf("validation failed (%d errors):\n  - %s", len(v), strings.Join(msgs, "\n  - "))
}

// Violation appends a KindValidation record scoped to a task and field.
func (v ValidationErrors) Violation(outline, field, format string, args ...any) ValidationErrors {
	return append(v, Error{
		Kind:          KindValidation,
		Message:       fmt.Sprintf(format, args...),
		OutlineNumber: outline,
		Field:         field,
	})
}

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// KindOf extracts the ErrorKind from err, unwrapping as needed.
// Plain errors report KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return KindValidation
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	return KindInternal
}
