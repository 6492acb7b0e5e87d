package orchestrator

import (
	"errors"
	"fmt"
)

// Code is a stable numeric error code surfaced to clients. Values never change
// once published.
type Code int

const (
	CodeUnknown              Code = 0
	CodeIdentifierNotFound   Code = 100
	CodeUserNotFound         Code = 200
	CodeUserAddFailed        Code = 201
	CodeUserEditFailed       Code = 202
	CodeActionNotAllowed     Code = 300
	CodeAuthenticationFailed Code = 400
)

func (c Code) String() string {
	switch c {
	case CodeIdentifierNotFound:
		return "IDENTIFIER_NOT_FOUND"
	case CodeUserNotFound:
		return "USER_NOT_FOUND"
	case CodeUserAddFailed:
		return "USER_ADD_FAILED"
	case CodeUserEditFailed:
		return "USER_EDIT_FAILED"
	case CodeActionNotAllowed:
		return "ACTION_NOT_ALLOWED"
	case CodeAuthenticationFailed:
		return "AUTHENTICATION_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Error is a protocol failure delivered to the calling connection.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, err error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func errIdentifierNotFound(format string, args ...any) *Error {
	return newError(CodeIdentifierNotFound, nil, format, args...)
}

func errActionNotAllowed(format string, args ...any) *Error {
	return newError(CodeActionNotAllowed, nil, format, args...)
}

func errUnknown(err error) *Error {
	return newError(CodeUnknown, err, "internal error")
}

// CodeOf returns the protocol code carried by err, or CodeUnknown.
func CodeOf(err error) Code {
	var protoErr *Error
	if errors.As(err, &protoErr) {
		return protoErr.Code
	}
	return CodeUnknown
}

// PublicMessage returns the text safe to show a client for err.
func PublicMessage(err error) string {
	var protoErr *Error
	if errors.As(err, &protoErr) {
		return protoErr.Message
	}
	return "internal error"
}
