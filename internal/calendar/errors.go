package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by every argument rejection
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDataset marks a dataset that cannot be served (malformed or inconsistent)
	ErrDataset = errors.New("invalid office dates dataset")
)

// ArgumentError identifies the request field that was rejected
type ArgumentError struct {
	Field  string
	Reason string
}

// NewArgumentError creates an ArgumentError for field
func NewArgumentError(field, reason string) *ArgumentError {
	return &ArgumentError{Field: field, Reason: reason}
}

func (e *ArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid argument: %s", e.Reason)
	}
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return NewArgumentError("month", fmt.Sprintf("must be 1..12, got %d", month))
	}
	return nil
}
