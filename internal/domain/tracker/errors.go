package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrStorageUnavailable  = errors.New("storage unavailable")

	ErrGroupNotFound        = fmt.Errorf("group %w", ErrNotFound)
	ErrParticipantNotFound  = fmt.Errorf("participant %w", ErrNotFound)
	ErrContributionNotFound = fmt.Errorf("contribution %w", ErrNotFound)
)

// ValidationError names the offending field; it matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func missingParent(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d does not exist", ErrConstraintViolation, kind, id)
}
