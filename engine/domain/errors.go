package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for normalization failures.
var (
	ErrMissingID     = errors.New("missing property identifier")
	ErrMissingPrice  = errors.New("missing price")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrNegativePrice = errors.New("negative price")
)

// RecordError wraps a sentinel with the offending record's identity.
type RecordError struct {
	PropertyID string
	Field      string
	Wrapped    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("domain: record %q: %s: %s", e.PropertyID, e.Field, e.Wrapped)
}

func (e *RecordError) Unwrap() error { return e.Wrapped }

// NewRecordError creates a RecordError.
func NewRecordError(propertyID, field string, wrapped error) *RecordError {
	return &RecordError{PropertyID: propertyID, Field: field, Wrapped: wrapped}
}
