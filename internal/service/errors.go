package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a classified failure. Kind is one of the sentinels above and is
// what errors.Is matches; Fields carries per-field messages when relevant.
type Error struct {
	Kind    error
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

func (e *Error) Unwrap() error { return e.Kind }

func NewValidationError(fields map[string][]string) *Error {
	return &Error{Kind: ErrValidation, Message: "The given data was invalid.", Fields: fields}
}

func FieldError(field, msg string) *Error {
	return NewValidationError(map[string][]string{field: {msg}})
}

func NewAuthenticationError(msg string) *Error {
	if msg == "" {
		msg = "Unauthenticated. Please log in."
	}
	return &Error{Kind: ErrUnauthenticated, Message: msg}
}

func NewAuthorizationError(msg string) *Error {
	if msg == "" {
		msg = "You do not have permission to perform this action."
	}
	return &Error{Kind: ErrForbidden, Message: msg}
}

func NewNotFoundError(resource string) *Error {
	return &Error{Kind: ErrNotFound, Message: resource + " not found"}
}

func NewConflictError(field, msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg, Fields: map[string][]string{field: {msg}}}
}

// AsError returns the classified error inside err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
