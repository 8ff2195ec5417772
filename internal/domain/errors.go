package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrMediaAccess      = errors.New("media access failed")
	ErrUnauthorized     = errors.New("unauthorized")
)

// DegradedHeader is set by the server when a listing was served empty
// because the store is unavailable.
const DegradedHeader = "X-Store-Degraded"

// NewValidationError wraps ErrValidation with a field-level reason.
func NewValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// NewMediaAccessError wraps ErrMediaAccess with the failing step.
func NewMediaAccessError(step string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrMediaAccess, step)
	}
	return fmt.Errorf("%w: %s: %v", ErrMediaAccess, step, err)
}

// Unavailable marks err as a store failure unless it is already one of the
// caller-facing sentinels.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
