package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrParseFailure       = errors.New("parse failure")
	ErrEmptyBatch         = errors.New("empty batch")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
)

var (
	ErrAllocatedUnitsExist = fmt.Errorf("%w: cannot reduce quantity, allocated units exist", ErrInvariantViolation)
	ErrSameLegDirection    = fmt.Errorf("%w: transfer legs must debit one side and credit the other", ErrInvariantViolation)
	ErrNonPositiveAmount   = fmt.Errorf("%w: amount must be positive", ErrInvariantViolation)
	ErrOfferingInUse       = fmt.Errorf("%w: offering is referenced by active orders", ErrInvariantViolation)
	ErrNothingToDelete     = fmt.Errorf("%w: nothing to delete", ErrEmptyBatch)
	ErrEmptyUpload         = fmt.Errorf("%w: upload has no rows", ErrEmptyBatch)
)

// ParseError points at the offending cell of a bulk upload.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("row %d, column %s: %q: %s", e.Row, e.Column, e.Value, e.Reason)
	}
	return fmt.Sprintf("row %d, column %s: unrecognized value %q", e.Row, e.Column, e.Value)
}

func (e *ParseError) Unwrap() error { return ErrParseFailure }

// ValidationError describes a rejected field of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
