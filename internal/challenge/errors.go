package challenge

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("challenge not found")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("invalid challenge")
	ErrStateConflict  = errors.New("challenge state conflict")
	ErrAdmissionLimit = errors.New("admission limit reached")
)

// ValidationError reports malformed input. Nothing was stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StateConflictError reports an event that is illegal in the challenge's
// current state. Callers should re-fetch before retrying.
type StateConflictError struct {
	ChallengeID string
	From        Status
	Event       Event
	Reason      string
}

func (e *StateConflictError) Error() string {
	if e.ChallengeID == "" {
		return fmt.Sprintf("cannot %s a %s challenge: %s", e.Event, e.From, e.Reason)
	}
	return fmt.Sprintf("cannot %s challenge %s (%s): %s", e.Event, e.ChallengeID, e.From, e.Reason)
}

func (e *StateConflictError) Unwrap() error { return ErrStateConflict }

// AdmissionLimitError is returned when a new challenge would exceed a limit.
// BlockingChallengeID points at the challenge that holds the place, if any.
type AdmissionLimitError struct {
	BlockingChallengeID string
	Reason              string
}

func (e *AdmissionLimitError) Error() string {
	return e.Reason
}

func (e *AdmissionLimitError) Unwrap() error { return ErrAdmissionLimit }

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}
