package domain

import (
	"errors"
	"fmt"
)

// The four failure kinds every operation can report. All of them leave prior
// state untouched; anything else surfaces as a generic internal error.

type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return e.Reason }

func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

type NotFoundError struct{ Entity string }

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func NotFound(entity string) error { return &NotFoundError{Entity: entity} }

type PreconditionError struct{ Reason string }

func (e *PreconditionError) Error() string { return e.Reason }

func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

type IntegrityError struct{ Reason string }

func (e *IntegrityError) Error() string { return e.Reason }

func Integrityf(format string, args ...any) error {
	return &IntegrityError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

func IsPrecondition(err error) bool {
	var v *PreconditionError
	return errors.As(err, &v)
}

func IsIntegrity(err error) bool {
	var v *IntegrityError
	return errors.As(err, &v)
}
