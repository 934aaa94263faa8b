package domain

import (
	"errors"
	"fmt"

	"github.com/roach88/pcconf/internal/catalog"
)

// ErrorCode categorizes solving errors.
type ErrorCode string

const (
	// ErrCodeUnsatisfiable indicates a domain or solution set became empty.
	// The session that produced it cannot continue; restart from full domains.
	ErrCodeUnsatisfiable ErrorCode = "UNSATISFIABLE"

	// ErrCodeInvalidSelection indicates a chosen id is not in the currently
	// available set. Nothing was mutated; the caller may ask again.
	ErrCodeInvalidSelection ErrorCode = "INVALID_SELECTION"
)

// Error is a solving error with structured fields for diagnostics.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Category is the category that emptied (UNSATISFIABLE) or the one a
	// selection was made for (INVALID_SELECTION).
	Category catalog.Category

	// ID is the rejected or last fixed identifier, if any.
	ID string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (category=%s, id=%s)", e.Code, e.Message, e.Category, e.ID)
	}
	return fmt.Sprintf("%s: %s (category=%s)", e.Code, e.Message, e.Category)
}

// NewUnsatisfiable reports that cat has no remaining candidates.
func NewUnsatisfiable(cat catalog.Category, id string) *Error {
	return &Error{
		Code:     ErrCodeUnsatisfiable,
		Message:  fmt.Sprintf("no compatible %s remains", cat),
		Category: cat,
		ID:       id,
	}
}

// NewInvalidSelection reports that id is not available for cat.
func NewInvalidSelection(cat catalog.Category, id string) *Error {
	return &Error{
		Code:     ErrCodeInvalidSelection,
		Message:  "id is not in the available set",
		Category: cat,
		ID:       id,
	}
}

// IsUnsatisfiable returns true if err is (or wraps) an UNSATISFIABLE error.
func IsUnsatisfiable(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeUnsatisfiable
	}
	return false
}

// IsInvalidSelection returns true if err is (or wraps) an INVALID_SELECTION error.
func IsInvalidSelection(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == ErrCodeInvalidSelection
	}
	return false
}
