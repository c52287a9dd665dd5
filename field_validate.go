package hxform

import (
	"context"
	"fmt"
)

// Reason says why a validation runs.
type Reason string

// Validation reasons.
const (
	ReasonChange Reason = "change"
	ReasonSubmit Reason = "submit"
)

// ValidationParams configures a single validation run.
type ValidationParams struct {
	Reason Reason
	// ForceChange re-runs validators even if the clean value was already
	// validated successfully.
	ForceChange bool
	// IsStillFresh lets the caller invalidate the run from outside.
	IsStillFresh func() bool
}

// StatusUpdate is reported by long-running validators. A zero Progress or
// an empty Message leaves the previous one in place.
type StatusUpdate struct {
	Message  string
	Progress float64
}

// ValidatorControls are handed to every validator.
type ValidatorControls struct {
	// IsStillFresh turns false once a newer validation has started, the
	// caller's predicate fails, or the context is done.
	IsStillFresh func() bool
	// UpdateStatus is ignored once the run is stale.
	UpdateStatus func(StatusUpdate)
}

// Validator checks a clean value.
//
// A returned error (or a panic) does not fail the field: it becomes an
// "Error while checking" message so a broken backend does not block the
// user. Validators that reject the value return findings instead.
type Validator[T any] func(ctx context.Context, value T, controls ValidatorControls, reason Reason) ([]Finding, error)

// Check adapts a synchronous check with no controls into a Validator.
func Check[T any](check func(value T) []Finding) Validator[T] {
	return func(_ context.Context, value T, _ ValidatorControls, _ Reason) ([]Finding, error) {
		return check(value), nil
	}
}

// Validate runs the validation pipeline and reports whether the clean value
// has an error. Invisible fields always pass.
//
// Validators run in order; once one reports an error the rest are skipped.
// A run that went stale before finishing reports false and commits nothing;
// IsValidated stays false until a later run completes.
func (f *InputField[T]) Validate(ctx context.Context, params ValidationParams) bool {
	f.mu.Lock()
	if !f.visible {
		f.mu.Unlock()
		return false
	}
	wasOK := f.isValidated && !f.hasProblemsLocked()
	f.session++
	session := f.session
	f.pending = session
	f.isValidated = false
	f.statusMessage = ""
	f.progress = 0
	value := f.value
	lastValidated, hasLastValidated := f.lastValidated, f.hasLastValidated
	f.mu.Unlock()
	f.notify()

	isStillFresh := func() bool {
		if ctx.Err() != nil {
			return false
		}
		if params.IsStillFresh != nil && !params.IsStillFresh() {
			return false
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.pending == session
	}
	controls := ValidatorControls{
		IsStillFresh: isStillFresh,
		UpdateStatus: func(status StatusUpdate) {
			if !isStillFresh() {
				return
			}
			f.mu.Lock()
			if status.Progress != 0 {
				f.progress = status.Progress
			}
			if status.Message != "" {
				f.statusMessage = status.Message
			}
			f.mu.Unlock()
			f.notify()
		},
	}

	f.log.Debug("validating", "id", f.id, "session", session, "reason", params.Reason)

	clean := f.clean(value)
	if params.Reason != ReasonChange && !f.tools.IsEqual(clean, value) {
		f.mu.Lock()
		f.value = clean
		f.lastSeen = clean
		f.mu.Unlock()
		f.notify()
	}

	var messages []MessageAt
	hasError := false
	if f.common.Required && f.tools.IsEmpty(clean) &&
		(params.Reason != ReasonChange || f.common.ValidateEmptyOnChange) {
		messages = append(messages, MessageAt{
			FieldMessage: FieldMessage{Signature: "required", Text: f.requiredMessage, Type: MessageError},
			Location:     RootLocation,
		})
		hasError = true
	}

	unchanged := hasLastValidated && f.tools.IsEqual(lastValidated, clean)
	for _, validator := range f.currentValidators(clean) {
		if hasError || !isStillFresh() || (!params.ForceChange && wasOK && unchanged) {
			continue
		}
		findings, err := runValidator(ctx, validator, clean, controls, params.Reason)
		if err != nil {
			f.log.Debug("validator failed", "id", f.id, "session", session, "err", err)
			messages = append(messages, MessageAt{
				FieldMessage: FieldMessage{Text: "Error while checking: " + err.Error(), Type: MessageError},
				Location:     RootLocation,
			})
			continue
		}
		for _, finding := range findings {
			if finding == nil {
				continue
			}
			if m, ok := finding.wrap(RootLocation, MessageError); ok {
				if m.Level() == MessageError {
					hasError = true
				}
				messages = append(messages, m)
			}
		}
	}

	if !isStillFresh() {
		f.log.Debug("discarding stale validation", "id", f.id, "session", session)
		f.mu.Lock()
		abandoned := f.pending == session
		if abandoned {
			f.pending = 0
		}
		f.mu.Unlock()
		if abandoned {
			f.notify()
		}
		return false
	}

	f.mu.Lock()
	if f.pending != session {
		f.mu.Unlock()
		return false
	}
	f.messages = messages
	f.pending = 0
	f.isValidated = true
	f.lastValidated = clean
	f.hasLastValidated = true
	hasProblems := f.hasProblemsLocked()
	f.mu.Unlock()
	f.notify()
	return hasProblems
}

func (f *InputField[T]) currentValidators(clean T) []Validator[T] {
	if f.generator != nil {
		return f.generator(clean)
	}
	return f.validators
}

func runValidator[T any](ctx context.Context, v Validator[T], value T, controls ValidatorControls, reason Reason) (findings []Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	if v == nil {
		return nil, nil
	}
	return v(ctx, value, controls, reason)
}

// prependValidators returns a generator running builtins before the user's
// validators or generator.
func prependValidators[T any](name string, builtins []Validator[T], validators []Validator[T], generator func(T) []Validator[T]) (func(T) []Validator[T], error) {
	if validators != nil && generator != nil {
		return nil, fieldError(name, ErrConflictingValidators, "")
	}
	return func(value T) []Validator[T] {
		all := append([]Validator[T](nil), builtins...)
		if generator != nil {
			return append(all, generator(value)...)
		}
		return append(all, validators...)
	}, nil
}
