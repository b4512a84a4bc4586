package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrUserNotFound = errors.New("user not found")
	ErrConflict     = errors.New("email already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidInputError carries a client-facing reason for rejected input.
// It matches ErrInvalidInput under errors.Is.
type InvalidInputError struct {
	Reason string
}

// InvalidInput builds an *InvalidInputError from a format string.
func InvalidInput(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

func (e *InvalidInputError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Reason
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
