package hxform

import (
	"errors"
	"fmt"
)

// Sentinel errors for field operations.
var (
	ErrContradictoryVisibility = errors.New("hxform: contradictory visibility")
	ErrContradictoryEnablement = errors.New("hxform: contradictory enablement")
	ErrConflictingValidators   = errors.New("hxform: both validators and a validators generator given")
	ErrNoChoices               = errors.New("hxform: no visible choices")
	ErrAlreadyRunning          = errors.New("hxform: action is already running")
	ErrCancelled               = errors.New("hxform: user cancelled the action")
	ErrInvalidInput            = errors.New("hxform: invalid input")
)

// IsCancelled checks if err signals that the user declined a confirmation.
// UI code should treat this as a normal outcome, not a failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsConfigurationError checks if err was caused by contradictory field props.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrContradictoryVisibility) ||
		errors.Is(err, ErrContradictoryEnablement) ||
		errors.Is(err, ErrConflictingValidators) ||
		errors.Is(err, ErrNoChoices)
}

// Must panics if err is non-nil, otherwise returns v.
//
// Field props are usually literals in application code, so a configuration
// error is a programming bug:
//
//	email := hxform.Must(hxform.NewTextFieldNamed("email", "Where we reach you", true))
func Must[F any](v F, err error) F {
	if err != nil {
		panic(err)
	}
	return v
}

func fieldError(name string, err error, detail string) error {
	if detail == "" {
		return fmt.Errorf("field %q: %w", name, err)
	}
	return fmt.Errorf("field %q: %w: %s", name, err, detail)
}
