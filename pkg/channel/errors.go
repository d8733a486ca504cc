package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-trunk/trunk/pkg/connector"
)

// Code classifies channel failures for callers that dispatch on the kind
// of error rather than its text.
type Code string

const (
	CodeInternal         Code = "INTERNAL"
	CodeUnavailable      Code = "UNAVAILABLE"
	CodeCanceled         Code = "CANCELED"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
)

// Error is the uniform failure surface of channel operations.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError attaches a code and context to err. A nil err wraps to nil.
func WrapError(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the code carried by err. Foreign errors report
// CodeInternal; a nil error has no code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// codeForErr classifies an attempt error by its cause. An error already
// carrying a code keeps it.
func codeForErr(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, connector.ErrShutdown):
		return CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return CodeDeadlineExceeded
	default:
		return CodeUnavailable
	}
}
