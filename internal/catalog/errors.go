package catalog

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes catalog errors.
type ErrorCode string

const (
	// ErrCodeMalformedAttribute indicates a record lacks an attribute a
	// constraint needs, or holds it with the wrong kind.
	ErrCodeMalformedAttribute ErrorCode = "MALFORMED_ATTRIBUTE"

	// ErrCodeInvalidRecord indicates a record failed validation on load.
	ErrCodeInvalidRecord ErrorCode = "INVALID_RECORD"
)

// AttributeError reports a data contract violation by a catalog provider:
// a constraint needs an attribute the record does not carry correctly.
type AttributeError struct {
	Category  Category
	ID        string
	Attribute string
	Want      Kind
	Reason    string
}

// Error implements the error interface.
func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: %s %q: attribute %q: %s", ErrCodeMalformedAttribute, e.Category, e.ID, e.Attribute, e.Reason)
}

// Code returns ErrCodeMalformedAttribute.
func (e *AttributeError) Code() ErrorCode { return ErrCodeMalformedAttribute }

// ValidationError reports a record rejected on load.
type ValidationError struct {
	Category Category
	ID       string
	Field    string
	Message  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s %q: %s: %s", ErrCodeInvalidRecord, e.Category, e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %s", ErrCodeInvalidRecord, e.Category, e.Field, e.Message)
}

// Code returns ErrCodeInvalidRecord.
func (e *ValidationError) Code() ErrorCode { return ErrCodeInvalidRecord }

// IsMalformedAttribute returns true if err is (or wraps) an AttributeError.
func IsMalformedAttribute(err error) bool {
	var ae *AttributeError
	return errors.As(err, &ae)
}

// IsInvalidRecord returns true if err is (or wraps) a ValidationError.
func IsInvalidRecord(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
