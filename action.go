package hxform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ConfirmationRequest asks the user before an action runs. Empty fields get
// defaults: the action's label as title, "Are you sure?", "Continue" and
// "Cancel".
type ConfirmationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OKLabel     string `json:"okLabel"`
	CancelLabel string `json:"cancelLabel"`
	Variant     string `json:"variant,omitempty"`
}

// ConfirmDefault requests confirmation with the default texts.
func ConfirmDefault() *ConfirmationRequest {
	return &ConfirmationRequest{}
}

// ConfirmWith requests confirmation with a custom question.
func ConfirmWith(description string) *ConfirmationRequest {
	return &ConfirmationRequest{Description: description}
}

// ActionProps configures an ActionField. Action is required.
type ActionProps[R any] struct {
	Name        string
	Label       string
	Description string

	Visible  *bool
	Hidden   *bool
	Enabled  *Decision
	Disabled *Decision

	ContainerClass     string
	ExpandHorizontally *bool

	// Rendering hints for the button.
	Variant string
	Size    string
	Color   string

	// PendingLabel replaces the label while the action runs.
	PendingLabel string

	// Confirmation, if set, holds Execute until Confirm or Deny.
	Confirmation *ConfirmationRequest

	Action func(ctx context.Context, ec ExecutionContext) (R, error)

	Logger *slog.Logger
}

// ActionField is a button-like pseudo-field that runs an operation.
//
// Execute moves it from idle to executing, or to awaiting confirmation
// first when a ConfirmationRequest is configured:
//
//	go func() {
//	    _, err := deleteAll.Execute(ctx)
//	    if hxform.IsCancelled(err) {
//	        return
//	    }
//	}()
//	deleteAll.Confirm()
type ActionField[R any] struct {
	*InputField[struct{}]
	action       func(context.Context, ExecutionContext) (R, error)
	pendingLabel string
	confirmation *ConfirmationRequest
	variant      string
	size         string
	color        string

	amu        sync.Mutex
	executing  bool
	confirming bool
	status     string
	decision   chan bool
}

// NewActionField creates an action. The label defaults to the capitalized
// name, and confirmation texts default as described on ConfirmationRequest.
func NewActionField[R any](props ActionProps[R]) (*ActionField[R], error) {
	if props.Action == nil {
		return nil, fmt.Errorf("field %q: %w: no action given", props.Name, ErrInvalidInput)
	}
	field, err := NewInputField(KindAction, Props[struct{}]{
		Common: Common{
			Name:                  props.Name,
			Label:                 props.Label,
			Description:           props.Description,
			Visible:               props.Visible,
			Hidden:                props.Hidden,
			Enabled:               props.Enabled,
			Disabled:              props.Disabled,
			ContainerClass:        props.ContainerClass,
			ExpandHorizontally:    props.ExpandHorizontally,
			ShowValidationPending: Flag(false),
			Logger:                props.Logger,
		},
	}, NoType)
	if err != nil {
		return nil, err
	}
	if props.Label == "" {
		field.label = CapitalizeFirstLetter(props.Name)
	}
	var confirmation *ConfirmationRequest
	if props.Confirmation != nil {
		c := *props.Confirmation
		if c.Title == "" {
			c.Title = field.label
		}
		if c.Description == "" {
			c.Description = "Are you sure?"
		}
		if c.OKLabel == "" {
			c.OKLabel = "Continue"
		}
		if c.CancelLabel == "" {
			c.CancelLabel = "Cancel"
		}
		confirmation = &c
	}
	return &ActionField[R]{
		InputField:   field,
		action:       props.Action,
		pendingLabel: props.PendingLabel,
		confirmation: confirmation,
		variant:      props.Variant,
		size:         props.Size,
		color:        props.Color,
	}, nil
}

// Variant, Size and Color are passed through to the button renderer.
func (f *ActionField[R]) Variant() string { return f.variant }
func (f *ActionField[R]) Size() string    { return f.size }
func (f *ActionField[R]) Color() string   { return f.color }

// IsPending reports whether the action is executing.
func (f *ActionField[R]) IsPending() bool {
	f.amu.Lock()
	defer f.amu.Unlock()
	return f.executing
}

// ValidationPending reports a running execution, so renderers show the
// same spinner as for a validation.
func (f *ActionField[R]) ValidationPending() bool {
	return f.IsPending()
}

// ValidationStatusMessage returns the status set by the running action.
func (f *ActionField[R]) ValidationStatusMessage() string {
	f.amu.Lock()
	defer f.amu.Unlock()
	return f.status
}

// Label returns the pending label while executing.
func (f *ActionField[R]) Label() string {
	if f.IsPending() && f.pendingLabel != "" {
		return f.pendingLabel
	}
	return f.InputField.Label()
}

// ConfirmationNeeded returns the question to show while an execution
// awaits confirmation, or nil.
func (f *ActionField[R]) ConfirmationNeeded() *ConfirmationRequest {
	f.amu.Lock()
	defer f.amu.Unlock()
	if !f.confirming {
		return nil
	}
	c := *f.confirmation
	return &c
}

// AnyValue is nil; actions carry no value.
func (f *ActionField[R]) AnyValue() any {
	return nil
}

// Snapshot reports the execution state in place of validation state.
func (f *ActionField[R]) Snapshot() Snapshot {
	s := f.InputField.Snapshot()
	s.Label = f.Label()
	f.amu.Lock()
	s.ValidationPending = f.executing
	s.StatusMessage = f.status
	f.amu.Unlock()
	return s
}

// Execute runs the action, waiting for confirmation first if configured.
//
// It returns ErrAlreadyRunning while another execution is in progress or
// awaiting confirmation, ErrCancelled if the user denied, and ctx.Err() if
// ctx ended while waiting. Errors from the action are also reported as
// error messages on the field.
func (f *ActionField[R]) Execute(ctx context.Context) (R, error) {
	var zero R
	f.amu.Lock()
	if f.executing || f.confirming {
		f.amu.Unlock()
		return zero, fmt.Errorf("action %q: %w", f.Name(), ErrAlreadyRunning)
	}
	if f.confirmation == nil {
		f.executing = true
		f.amu.Unlock()
		return f.run(ctx)
	}
	decision := make(chan bool, 1)
	f.confirming = true
	f.decision = decision
	f.amu.Unlock()
	f.notify()

	var confirmed bool
	select {
	case confirmed = <-decision:
	case <-ctx.Done():
		f.amu.Lock()
		resolved := f.decision != decision
		if !resolved {
			f.confirming = false
			f.decision = nil
		}
		f.amu.Unlock()
		if !resolved {
			f.notify()
			return zero, ctx.Err()
		}
		confirmed = <-decision
	}
	if !confirmed {
		return zero, ErrCancelled
	}
	return f.run(ctx)
}

// Confirm resolves a pending confirmation and starts the action. It reports
// false if nothing awaited confirmation.
func (f *ActionField[R]) Confirm() bool {
	return f.resolve(true)
}

// Deny rejects a pending confirmation; the waiting Execute returns
// ErrCancelled.
func (f *ActionField[R]) Deny() bool {
	return f.resolve(false)
}

func (f *ActionField[R]) resolve(confirmed bool) bool {
	f.amu.Lock()
	if !f.confirming {
		f.amu.Unlock()
		return false
	}
	decision := f.decision
	f.confirming = false
	f.decision = nil
	f.executing = confirmed
	f.amu.Unlock()
	decision <- confirmed
	f.notify()
	return true
}

func (f *ActionField[R]) run(ctx context.Context) (R, error) {
	f.ClearAllMessages("execute action")
	f.log.Debug("executing action", "id", f.ID())
	defer func() {
		f.amu.Lock()
		f.executing = false
		f.status = ""
		f.amu.Unlock()
		f.notify()
	}()
	ec := fieldExecutionContext[R]{action: f}
	result, err := f.action(ctx, ec)
	if err != nil {
		ec.Error(err)
		return result, err
	}
	return result, nil
}

func (f *ActionField[R]) setStatus(message string) {
	f.amu.Lock()
	f.status = message
	f.amu.Unlock()
	f.notify()
}

// Flatten makes the action usable as a Group.
func (f *ActionField[R]) Flatten() []FieldLike {
	return []FieldLike{f}
}
