package hxform

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	errs := []error{
		ErrContradictoryVisibility,
		ErrContradictoryEnablement,
		ErrConflictingValidators,
		ErrNoChoices,
		ErrAlreadyRunning,
		ErrCancelled,
		ErrInvalidInput,
	}

	for i, err1 := range errs {
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestIsCancelled(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrCancelled", ErrCancelled, true},
		{"wrapped ErrCancelled", fmt.Errorf("wrapped: %w", ErrCancelled), true},
		{"other error", errors.New("other error"), false},
		{"ErrAlreadyRunning", ErrAlreadyRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsCancelled(tt.err)
			if result != tt.expect {
				t.Errorf("IsCancelled(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestIsConfigurationError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"visibility", fieldError("a", ErrContradictoryVisibility, "detail"), true},
		{"enablement", fieldError("a", ErrContradictoryEnablement, ""), true},
		{"validators", fieldError("a", ErrConflictingValidators, ""), true},
		{"choices", fieldError("a", ErrNoChoices, ""), true},
		{"cancelled", ErrCancelled, false},
		{"invalid input", ErrInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsConfigurationError(tt.err)
			if result != tt.expect {
				t.Errorf("IsConfigurationError(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestFieldErrorMessage(t *testing.T) {
	err := fieldError("email", ErrContradictoryVisibility, `"hidden" and "visible" have the same value`)
	want := `field "email": hxform: contradictory visibility: "hidden" and "visible" have the same value`
	if err.Error() != want {
		t.Errorf("fieldError() = %q, want %q", err.Error(), want)
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must() = %d, want 42", got)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Must() did not panic on error")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrNoChoices) {
			t.Errorf("Must() panicked with %v, want ErrNoChoices", r)
		}
	}()
	Must(0, ErrNoChoices)
}
