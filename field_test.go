package hxform

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStringField(t *testing.T, props Props[string]) *InputField[string] {
	t.Helper()
	if props.Name == "" {
		props.Name = "subject"
	}
	f, err := NewInputField(KindText, props, DataType[string]{
		IsEmpty: func(s string) bool { return s == "" },
		IsEqual: func(a, b string) bool { return a == b },
	})
	require.NoError(t, err)
	return f
}

func submit() ValidationParams {
	return ValidationParams{Reason: ReasonSubmit}
}

func TestVisibilityResolution(t *testing.T) {
	tests := []struct {
		name    string
		visible *bool
		hidden  *bool
		want    bool
		wantErr bool
	}{
		{"neither", nil, nil, true, false},
		{"visible only", Flag(false), nil, false, false},
		{"hidden only", nil, Flag(true), false, false},
		{"agreeing", Flag(true), Flag(false), true, false},
		{"both true", Flag(true), Flag(true), false, true},
		{"both false", Flag(false), Flag(false), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewInputField(KindText, Props[string]{
				Common: Common{Name: "x", Visible: tt.visible, Hidden: tt.hidden},
			}, Comparable[string]())
			if tt.wantErr {
				require.ErrorIs(t, err, ErrContradictoryVisibility)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.IsVisible())
		})
	}
}

func TestEnablementResolution(t *testing.T) {
	tests := []struct {
		name     string
		enabled  *Decision
		disabled *Decision
		verdict  bool
		reason   string
		wantErr  bool
	}{
		{"neither", nil, nil, true, "", false},
		{"disabled only", nil, DenyWithReason("x"), true, "", false},
		{"disabled with reason", nil, Allow("locked"), false, "locked", false},
		{"enabled only", Deny("nope"), nil, false, "nope", false},
		{"differing verdicts", Deny("e"), Allow("d"), false, "d", false},
		{"differing without disabled reason", Deny("e"), Allow(), false, "e", false},
		{"same verdicts", Allow(), Allow(), false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewInputField(KindText, Props[string]{
				Common: Common{Name: "x", Enabled: tt.enabled, Disabled: tt.disabled},
			}, Comparable[string]())
			if tt.wantErr {
				require.ErrorIs(t, err, ErrContradictoryEnablement)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.verdict, f.IsEnabled())
			if !tt.verdict {
				assert.Equal(t, tt.reason, f.WhyDisabled())
			}
		})
	}
}

func TestConflictingValidators(t *testing.T) {
	_, err := NewInputField(KindText, Props[string]{
		Common:              Common{Name: "x"},
		Validators:          []Validator[string]{},
		ValidatorsGenerator: func(string) []Validator[string] { return nil },
	}, Comparable[string]())
	require.ErrorIs(t, err, ErrConflictingValidators)
	assert.True(t, IsConfigurationError(err))
}

func TestDefaultLabel(t *testing.T) {
	f := newStringField(t, Props[string]{Common: Common{Name: "emailAddress"}})
	assert.Equal(t, "Email Address", f.Label())
}

func TestRequiredOnSubmit(t *testing.T) {
	f := newStringField(t, Props[string]{Common: Common{Required: true}})

	assert.True(t, f.Validate(context.Background(), submit()))
	root := f.AllMessages().Root()
	require.Len(t, root, 1)
	assert.Equal(t, "This field is required", root[0].Text)
	assert.True(t, f.IsValidated())
	assert.True(t, f.HasProblems())
}

func TestRequiredCustomMessage(t *testing.T) {
	f := newStringField(t, Props[string]{Common: Common{Required: true, RequiredMessage: "Tell us"}})
	f.Validate(context.Background(), submit())
	assert.Equal(t, "Tell us", f.AllMessages().Root()[0].Text)
}

func TestRequiredSkipsValidators(t *testing.T) {
	var calls atomic.Int32
	f := newStringField(t, Props[string]{
		Common: Common{Required: true},
		Validators: []Validator[string]{Check(func(string) []Finding {
			calls.Add(1)
			return nil
		})},
	})
	f.Validate(context.Background(), submit())
	assert.Equal(t, int32(0), calls.Load())
}

func TestRequiredIgnoredOnChange(t *testing.T) {
	ctx := context.Background()

	t.Run("without empty-on-change", func(t *testing.T) {
		f := newStringField(t, Props[string]{
			Common:       Common{Required: true, ValidateOnChange: true},
			InitialValue: "x",
		})
		eff := f.SetValue("")
		assert.True(t, eff.Changed)
		assert.Nil(t, eff.Validation, "empty values are not validated on change")
		assert.True(t, eff.Cleared)

		assert.False(t, f.Validate(ctx, ValidationParams{Reason: ReasonChange}))
		assert.Empty(t, f.AllMessages())
	})

	t.Run("with empty-on-change", func(t *testing.T) {
		f := newStringField(t, Props[string]{
			Common:       Common{Required: true, ValidateOnChange: true, ValidateEmptyOnChange: true},
			InitialValue: "x",
		})
		eff := f.SetValue("")
		require.NotNil(t, eff.Validation)
		assert.Equal(t, ReasonChange, eff.Validation.Reason)
		assert.True(t, eff.Run(ctx))
		assert.True(t, f.HasProblems())
	})

	t.Run("submit always checks", func(t *testing.T) {
		f := newStringField(t, Props[string]{Common: Common{Required: true}})
		assert.True(t, f.Validate(ctx, ValidationParams{Reason: ReasonSubmit}))
	})
}

func TestInvisibleFieldPasses(t *testing.T) {
	var calls atomic.Int32
	f := newStringField(t, Props[string]{
		Common: Common{Required: true, Hidden: Flag(true)},
		Validators: []Validator[string]{Check(func(string) []Finding {
			calls.Add(1)
			return Problem("always wrong")
		})},
	})
	assert.False(t, f.Validate(context.Background(), submit()))
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, f.IsValidated())
}

func TestValidatorsStopAtFirstError(t *testing.T) {
	var second atomic.Int32
	f := newStringField(t, Props[string]{
		InitialValue: "value",
		Validators: []Validator[string]{
			Check(func(string) []Finding { return Warning("hmm: just saying") }),
			Check(func(string) []Finding { return Problem("bad: wrong") }),
			Check(func(string) []Finding {
				second.Add(1)
				return nil
			}),
		},
	})
	assert.True(t, f.Validate(context.Background(), submit()))
	root := f.AllMessages().Root()
	require.Len(t, root, 2)
	assert.Equal(t, "hmm", root[0].Signature)
	assert.Equal(t, MessageWarning, root[0].Type)
	assert.Equal(t, "bad", root[1].Signature)
	assert.Equal(t, int32(0), second.Load())
}

func TestValidatorFailureBecomesMessage(t *testing.T) {
	var after atomic.Int32
	f := newStringField(t, Props[string]{
		InitialValue: "value",
		Validators: []Validator[string]{
			func(context.Context, string, ValidatorControls, Reason) ([]Finding, error) {
				return nil, errors.New("backend down")
			},
			func(context.Context, string, ValidatorControls, Reason) ([]Finding, error) {
				panic("boom")
			},
			Check(func(string) []Finding {
				after.Add(1)
				return nil
			}),
		},
	})

	assert.True(t, f.Validate(context.Background(), submit()))
	root := f.AllMessages().Root()
	require.Len(t, root, 2)
	assert.Equal(t, "Error while checking: backend down", root[0].Text)
	assert.Equal(t, "Error while checking: boom", root[1].Text)
	assert.Equal(t, int32(1), after.Load(), "failures do not stop later validators")
}

func TestValidationMemoization(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	f := newStringField(t, Props[string]{
		InitialValue: "first",
		Validators: []Validator[string]{Check(func(string) []Finding {
			calls.Add(1)
			return nil
		})},
	})

	assert.False(t, f.Validate(ctx, submit()))
	assert.False(t, f.Validate(ctx, submit()))
	assert.Equal(t, int32(1), calls.Load(), "unchanged valid value is not re-checked")

	f.Validate(ctx, ValidationParams{Reason: ReasonSubmit, ForceChange: true})
	assert.Equal(t, int32(2), calls.Load())

	f.SetValue("second")
	f.Validate(ctx, submit())
	assert.Equal(t, int32(3), calls.Load())
}

func TestCleanValueCommittedOnSubmit(t *testing.T) {
	var seen string
	f := newStringField(t, Props[string]{
		InitialValue: "  padded  ",
		CleanUp:      func(s string) string { return s[2 : len(s)-2] },
		Validators: []Validator[string]{Check(func(v string) []Finding {
			seen = v
			return nil
		})},
	})

	f.Validate(context.Background(), ValidationParams{Reason: ReasonChange})
	assert.Equal(t, "  padded  ", f.Value(), "change validation leaves the raw value")
	assert.Equal(t, "padded", seen)

	f.Validate(context.Background(), ValidationParams{Reason: ReasonSubmit, ForceChange: true})
	assert.Equal(t, "padded", f.Value())
}

func TestStaleValidationIsDiscarded(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	f := newStringField(t, Props[string]{
		InitialValue: "value",
		Validators: []Validator[string]{
			func(_ context.Context, _ string, c ValidatorControls, _ Reason) ([]Finding, error) {
				if calls.Add(1) == 1 {
					close(started)
					<-release
					c.UpdateStatus(StatusUpdate{Message: "late", Progress: 0.5})
					return Problem("stale: from the first run"), nil
				}
				return nil, nil
			},
		},
	})

	first := make(chan bool)
	go func() {
		first <- f.Validate(ctx, submit())
	}()
	<-started
	assert.True(t, f.ValidationPending())

	assert.False(t, f.Validate(ctx, submit()))
	close(release)

	select {
	case hasError := <-first:
		assert.False(t, hasError, "stale runs report no error")
	case <-time.After(time.Second):
		t.Fatal("first validation did not finish")
	}
	assert.False(t, f.HasProblems())
	assert.Empty(t, f.ValidationStatusMessage(), "stale status updates are ignored")
	assert.False(t, f.ValidationPending())
}

func TestRevalidationIsNotValidatedWhilePending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	f := newStringField(t, Props[string]{
		InitialValue: "value",
		Validators: []Validator[string]{
			func(context.Context, string, ValidatorControls, Reason) ([]Finding, error) {
				if calls.Add(1) == 2 {
					close(started)
					<-release
				}
				return nil, nil
			},
		},
	})
	require.False(t, f.Validate(context.Background(), submit()))
	require.True(t, f.IsValidated())

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.Validate(context.Background(), ValidationParams{Reason: ReasonSubmit, ForceChange: true})
	}()
	<-started
	snap := f.Snapshot()
	assert.True(t, snap.ValidationPending)
	assert.False(t, snap.IsValidated, "a running validation does not report success")

	close(release)
	<-done
	assert.True(t, f.IsValidated())
	assert.False(t, f.ValidationPending())
}

func TestAbandonedValidationStopsPending(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	f := newStringField(t, Props[string]{
		InitialValue: "value",
		Validators: []Validator[string]{
			func(ctx context.Context, _ string, _ ValidatorControls, _ Reason) ([]Finding, error) {
				close(started)
				<-ctx.Done()
				return Problem("late: never shown"), nil
			},
		},
	})

	done := make(chan bool)
	go func() {
		done <- f.Validate(ctx, submit())
	}()
	<-started
	cancel()

	assert.False(t, <-done)
	assert.False(t, f.ValidationPending())
	assert.False(t, f.IsValidated())
	assert.False(t, f.HasProblems())
}

func TestExternalFreshnessPredicate(t *testing.T) {
	f := newStringField(t, Props[string]{
		InitialValue: "value",
		Validators:   []Validator[string]{Check(func(string) []Finding { return Problem("bad") })},
	})
	hasError := f.Validate(context.Background(), ValidationParams{
		Reason:       ReasonSubmit,
		IsStillFresh: func() bool { return false },
	})
	assert.False(t, hasError)
	assert.False(t, f.IsValidated())
}

func TestCancelledContextIsStale(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newStringField(t, Props[string]{Common: Common{Required: true}})
	assert.False(t, f.Validate(ctx, submit()))
	assert.Empty(t, f.AllMessages())
}

func TestStatusUpdates(t *testing.T) {
	f := newStringField(t, Props[string]{
		InitialValue: "value",
		Validators: []Validator[string]{
			func(_ context.Context, _ string, c ValidatorControls, _ Reason) ([]Finding, error) {
				c.UpdateStatus(StatusUpdate{Message: "Checking", Progress: 0.25})
				c.UpdateStatus(StatusUpdate{Progress: 0.75})
				return nil, nil
			},
		},
	})
	f.Validate(context.Background(), submit())
	assert.Equal(t, "Checking", f.ValidationStatusMessage())
	progress, ok := f.ValidatorProgress()
	assert.True(t, ok)
	assert.Equal(t, 0.75, progress)
}

func TestSetValueEffects(t *testing.T) {
	var changes []string
	var freshness []func() bool
	f := newStringField(t, Props[string]{
		InitialValue: "a",
		OnValueChange: func(v string, isStillFresh func() bool) {
			changes = append(changes, v)
			freshness = append(freshness, isStillFresh)
		},
	})

	eff := f.SetValue("a")
	assert.False(t, eff.Changed, "same value is not a change")
	assert.Empty(t, changes)

	f.SetValue("b")
	require.Len(t, freshness, 1)
	assert.True(t, freshness[0]())

	f.SetValue("c")
	assert.False(t, freshness[0](), "superseded by a newer value")
	assert.True(t, freshness[1]())
	assert.Equal(t, []string{"b", "c"}, changes)
}

func TestChangeClearsMessages(t *testing.T) {
	f := newStringField(t, Props[string]{
		InitialValue: "x",
		Validators:   []Validator[string]{Check(func(string) []Finding { return Problem("bad") })},
	})
	f.Validate(context.Background(), submit())
	require.True(t, f.HasProblems())

	eff := f.SetValue("y")
	assert.True(t, eff.Cleared)
	assert.False(t, f.HasProblems())
	assert.False(t, f.IsValidated())
}

func TestChangeValidation(t *testing.T) {
	f := newStringField(t, Props[string]{
		Common:     Common{ValidateOnChange: true},
		Validators: []Validator[string]{Check(func(v string) []Finding { return Problem("bad: " + v) })},
	})
	eff := f.SetValue("oops")
	require.NotNil(t, eff.Validation)
	assert.True(t, eff.Validation.IsStillFresh())
	assert.True(t, eff.Run(context.Background()))
	assert.Equal(t, "oops", f.AllMessages().Root()[0].Text)
}

func TestChangeValidationGoesStale(t *testing.T) {
	f := newStringField(t, Props[string]{
		Common:     Common{ValidateOnChange: true},
		Validators: []Validator[string]{Check(func(string) []Finding { return Problem("bad") })},
	})
	eff := f.SetValue("one")
	f.SetValue("two")
	assert.False(t, eff.Run(context.Background()))
	assert.False(t, f.HasProblems())
}

func TestClearMessages(t *testing.T) {
	f := newStringField(t, Props[string]{
		InitialValue: "x",
		Validators: []Validator[string]{
			func(context.Context, string, ValidatorControls, Reason) ([]Finding, error) {
				return []Finding{
					Message{Text: "same", Type: MessageInfo},
					Message{Text: "same", Type: MessageWarning},
					Message{Text: "elsewhere", Type: MessageWarning, Location: "details"},
				}, nil
			},
		},
	})
	f.Validate(context.Background(), submit())
	require.True(t, f.IsValidated())

	f.ClearErrorMessage("same")
	root := f.AllMessages().Root()
	require.Len(t, root, 1)
	assert.Equal(t, MessageInfo, root[0].Type, "info messages survive")
	assert.False(t, f.IsValidated())

	f.ClearMessagesAt("details")
	assert.Empty(t, f.Messages("details"))

	f.ClearAllMessages("test")
	assert.Empty(t, f.AllMessages())
}

func TestSubscribe(t *testing.T) {
	f := newStringField(t, Props[string]{})
	var notified atomic.Int32
	cancel := f.Subscribe(func() { notified.Add(1) })

	f.SetValue("new")
	assert.Positive(t, notified.Load())

	cancel()
	before := notified.Load()
	f.SetValue("newer")
	assert.Equal(t, before, notified.Load())
}

func TestSnapshot(t *testing.T) {
	f := newStringField(t, Props[string]{
		Common: Common{Name: "title", Disabled: Allow("read only"), Required: true},
	})
	f.Validate(context.Background(), submit())
	s := f.Snapshot()
	assert.Equal(t, "title", s.Name)
	assert.Equal(t, "text", s.Kind)
	assert.False(t, s.Enabled)
	assert.Equal(t, "read only", s.WhyDisabled)
	assert.True(t, s.HasProblems)
	assert.True(t, s.Messages.HasError())
}

func TestReset(t *testing.T) {
	f := newStringField(t, Props[string]{InitialValue: "start"})
	f.SetValue("changed")
	eff := f.Reset()
	assert.True(t, eff.Changed)
	assert.Equal(t, "start", f.Value())
}
