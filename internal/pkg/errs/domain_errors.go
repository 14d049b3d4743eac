package errs

import (
	"fmt"

	cr "github.com/cockroachdb/errors"
)

// Category markers. Concrete errors are attached to one of these with Mark
// (or implement Is) so callers can branch with errors.Is.
var (
	ErrValidation                 = cr.New("validation failed")
	ErrNotFound                   = cr.New("not found")
	ErrBookingConflict            = cr.New("booking conflict")
	ErrBusinessRule               = cr.New("business rule violated")
	ErrInvalidSignature           = cr.New("invalid signature")
	ErrTransientStore             = cr.New("transient store failure")
	ErrConcurrentOperationTimeout = cr.New("concurrent operation timeout")
)

// ValidationError reports a malformed input before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsRetryable reports whether a failure may succeed when attempted again.
func IsRetryable(err error) bool {
	return cr.Is(err, ErrTransientStore) || cr.Is(err, ErrConcurrentOperationTimeout)
}

// IsBusinessFailure covers failures that redelivery cannot fix.
func IsBusinessFailure(err error) bool {
	return cr.Is(err, ErrValidation) ||
		cr.Is(err, ErrNotFound) ||
		cr.Is(err, ErrBookingConflict) ||
		cr.Is(err, ErrBusinessRule)
}

type categorized struct {
	msg      string
	category error
}

func (e *categorized) Error() string { return e.msg }

func (e *categorized) Is(target error) bool { return target == e.category }

// Define creates a sentinel that also matches its category marker.
func Define(category error, msg string) error {
	return &categorized{msg: msg, category: category}
}
