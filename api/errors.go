// Package api
// Author: momentics <momentics@gmail.com>
//
// Error taxonomy shared by the ring, mirror and pool packages.

package api

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the library matches exactly one of
// these through errors.Is.
var (
	ErrConfiguration    = errors.New("invalid configuration")
	ErrMapping          = errors.New("memory mapping failed")
	ErrFull             = errors.New("not enough free bytes to write")
	ErrInsufficientData = errors.New("not enough data to read from")
	ErrClosed           = errors.New("write on closed ring")
	ErrReleased         = errors.New("ring memory already released")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeConfiguration
	ErrCodeMapping
	ErrCodeFull
	ErrCodeInsufficientData
	ErrCodeClosed
	ErrCodeReleased
	ErrCodeInternal
)

var codeKinds = map[ErrorCode]error{
	ErrCodeConfiguration:    ErrConfiguration,
	ErrCodeMapping:          ErrMapping,
	ErrCodeFull:             ErrFull,
	ErrCodeInsufficientData: ErrInsufficientData,
	ErrCodeClosed:           ErrClosed,
	ErrCodeReleased:         ErrReleased,
}

// String returns the taxonomy name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "OK"
	case ErrCodeConfiguration:
		return "ConfigurationError"
	case ErrCodeMapping:
		return "MappingError"
	case ErrCodeFull:
		return "FullError"
	case ErrCodeInsufficientData:
		return "InsufficientDataError"
	case ErrCodeClosed:
		return "ClosedError"
	case ErrCodeReleased:
		return "ReleasedError"
	default:
		return "InternalError"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	// Err is the underlying platform error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		if kind, ok := codeKinds[e.Code]; ok {
			msg = kind.Error()
		} else {
			msg = e.Code.String()
		}
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if len(e.Context) == 0 {
		return "ring: " + msg
	}
	return fmt.Sprintf("ring: %s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the platform error for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel kind of this error's code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Code == e.Code
	}
	kind, ok := codeKinds[e.Code]
	return ok && kind == target
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Wrap attaches an underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// CodeOf extracts the ErrorCode carried by err. Bare sentinels map to their
// code; nil maps to ErrCodeOK and foreign errors to ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	for code, kind := range codeKinds {
		if errors.Is(err, kind) {
			return code
		}
	}
	return ErrCodeInternal
}
