package hxform

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
)

// Common holds the props shared by every field type.
type Common struct {
	// Name identifies the field. Use camelCase; the default label is derived
	// from it.
	Name        string
	Label       string
	Description string
	Placeholder string

	// Compact puts the label on the same line as the value.
	Compact bool

	// Required makes an empty clean value an error on submit.
	// RequiredMessage defaults to "This field is required".
	Required        bool
	RequiredMessage string

	// Visible and Hidden are two ways of saying the same thing.
	// Setting both to agreeing values is allowed; contradicting ones are not.
	Visible *bool
	Hidden  *bool

	// Enabled and Disabled follow the same rule as Visible and Hidden.
	// The reason of a denial is shown to the user.
	Enabled  *Decision
	Disabled *Decision

	ContainerClass     string
	ExpandHorizontally *bool

	// ValidateOnChange validates after every value change.
	// ValidateEmptyOnChange extends that (and the required check) to empty values.
	ValidateOnChange      bool
	ValidateEmptyOnChange bool

	// ShowValidationPending defaults to true.
	ShowValidationPending *bool
	ShowValidationSuccess bool

	Logger *slog.Logger
}

// Props configures a generic input field.
type Props[T any] struct {
	Common

	InitialValue T

	// CleanUp normalizes values before emptiness checks and validation.
	CleanUp func(T) T

	// Validators and ValidatorsGenerator are mutually exclusive.
	Validators          []Validator[T]
	ValidatorsGenerator func(value T) []Validator[T]

	// OnValueChange runs after each change; isStillFresh turns false once
	// the value changes again.
	OnValueChange func(value T, isStillFresh func() bool)
}

// Flag returns a pointer to b, for the optional boolean props.
func Flag(b bool) *bool {
	return &b
}

var fieldSeq atomic.Uint64

func newFieldID(name string) string {
	return name + "-" + strconv.FormatUint(fieldSeq.Add(1), 36)
}

// InputField is the state machine behind every field: value, visibility,
// enablement and the validation lifecycle.
//
// All methods are safe for concurrent use. Validators and callbacks run
// without the field lock held, so they may call back into the field.
type InputField[T any] struct {
	kind            Kind
	id              string
	common          Common
	label           string
	requiredMessage string
	showPending     bool
	expand          bool
	initial         T
	cleanUp         func(T) T
	validators      []Validator[T]
	generator       func(T) []Validator[T]
	onValueChange   func(T, func() bool)
	tools           DataType[T]
	log             *slog.Logger

	mu               sync.Mutex
	value            T
	lastSeen         T
	visible          bool
	enabled          *Decision
	restriction      *Decision // combined into every enablement, nil if none
	messages         []MessageAt
	session          uint64
	pending          uint64 // session currently allowed to commit, 0 if none
	isValidated      bool
	lastValidated    T
	hasLastValidated bool
	statusMessage    string
	progress         float64
	listeners        map[int]func()
	nextListener     int
}

// NewInputField creates a field of the given kind. Typed constructors such
// as NewTextField are built on it; use it directly for custom value types.
func NewInputField[T any](kind Kind, props Props[T], tools DataType[T]) (*InputField[T], error) {
	visible, err := calculateVisible(props.Common)
	if err != nil {
		return nil, err
	}
	enabled, err := calculateEnabled(props.Common)
	if err != nil {
		return nil, err
	}
	if props.Validators != nil && props.ValidatorsGenerator != nil {
		return nil, fieldError(props.Name, ErrConflictingValidators, "")
	}

	label := props.Label
	if label == "" {
		label = CamelToTitleCase(props.Name)
	}
	requiredMessage := props.RequiredMessage
	if requiredMessage == "" {
		requiredMessage = "This field is required"
	}
	logger := props.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &InputField[T]{
		kind:            kind,
		id:              newFieldID(props.Name),
		common:          props.Common,
		label:           label,
		requiredMessage: requiredMessage,
		showPending:     props.ShowValidationPending == nil || *props.ShowValidationPending,
		expand:          props.ExpandHorizontally == nil || *props.ExpandHorizontally,
		initial:         props.InitialValue,
		cleanUp:         props.CleanUp,
		validators:      props.Validators,
		generator:       props.ValidatorsGenerator,
		onValueChange:   props.OnValueChange,
		tools:           tools,
		log:             logger.With("field", props.Name),
		value:           props.InitialValue,
		lastSeen:        props.InitialValue,
		visible:         visible,
		enabled:         enabled,
		listeners:       make(map[int]func()),
	}, nil
}

func calculateVisible(c Common) (bool, error) {
	switch {
	case c.Visible == nil && c.Hidden == nil:
		return true, nil
	case c.Visible == nil:
		return !*c.Hidden, nil
	case c.Hidden == nil:
		return *c.Visible, nil
	case *c.Visible != *c.Hidden:
		return *c.Visible, nil
	default:
		return false, fieldError(c.Name, ErrContradictoryVisibility, `"hidden" and "visible" have the same value`)
	}
}

func calculateEnabled(c Common) (*Decision, error) {
	switch {
	case c.Enabled == nil && c.Disabled == nil:
		return BoolDecision(true), nil
	case c.Enabled == nil:
		return Invert(c.Disabled), nil
	case c.Disabled == nil:
		return c.Enabled, nil
	case GetVerdict(c.Enabled, false) != GetVerdict(c.Disabled, false):
		reason := GetReason(c.Disabled)
		if reason == "" {
			reason = GetReason(c.Enabled)
		}
		return &Decision{Verdict: GetVerdict(c.Enabled, false), Reason: reason}, nil
	default:
		return nil, fieldError(c.Name, ErrContradictoryEnablement, `"enabled" and "disabled" have the same verdict`)
	}
}

// ID is unique per field instance and safe to use as an HTML id.
func (f *InputField[T]) ID() string          { return f.id }
// Name is the configured name, also the form parameter name.
func (f *InputField[T]) Name() string        { return f.common.Name }
// Kind selects the renderer.
func (f *InputField[T]) Kind() Kind          { return f.kind }
// Label is the caption, derived from the name unless set.
func (f *InputField[T]) Label() string       { return f.label }
// Description is markdown shown below the control.
func (f *InputField[T]) Description() string { return f.common.Description }
// Placeholder is the hint shown in an empty control.
func (f *InputField[T]) Placeholder() string { return f.common.Placeholder }
// Compact reports whether the label shares a line with the value.
func (f *InputField[T]) Compact() bool       { return f.common.Compact }

// IsRequired reports whether an empty value fails submit validation.
func (f *InputField[T]) IsRequired() bool { return f.common.Required }

// ContainerClass returns extra CSS classes for the field's container.
func (f *InputField[T]) ContainerClass() string { return f.common.ContainerClass }

// ExpandHorizontally reports whether the field takes all available width.
func (f *InputField[T]) ExpandHorizontally() bool { return f.expand }

// IndicateValidationPending reports whether renderers should show a spinner
// while validation runs.
func (f *InputField[T]) IndicateValidationPending() bool { return f.showPending }

// IndicateValidationSuccess reports whether renderers should mark a
// successfully validated field.
func (f *InputField[T]) IndicateValidationSuccess() bool { return f.common.ShowValidationSuccess }

// Value returns the current raw value.
func (f *InputField[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// CleanValue returns the value after CleanUp.
func (f *InputField[T]) CleanValue() T {
	return f.clean(f.Value())
}

// IsEmpty reports whether the clean value is empty.
func (f *InputField[T]) IsEmpty() bool {
	return f.tools.IsEmpty(f.CleanValue())
}

// AnyValue returns the value for GetFieldValues.
func (f *InputField[T]) AnyValue() any {
	return f.Value()
}

func (f *InputField[T]) clean(v T) T {
	if f.cleanUp == nil {
		return v
	}
	return f.cleanUp(v)
}

// IsVisible reports whether the field is shown. Invisible fields are
// never validated.
func (f *InputField[T]) IsVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// IsEnabled reports whether the user may change the value.
func (f *InputField[T]) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return GetVerdict(f.enabled, true)
}

// WhyDisabled returns the reason for the denial, or "" if enabled.
func (f *InputField[T]) WhyDisabled() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if GetVerdict(f.enabled, true) {
		return ""
	}
	return GetReason(f.enabled)
}

// SetVisible changes visibility after construction.
func (f *InputField[T]) SetVisible(visible bool) {
	f.mu.Lock()
	f.visible = visible
	f.mu.Unlock()
	f.notify()
}

// SetEnabled replaces the enablement decision. Restrictions the field
// imposes on itself, such as a choice field with a single choice, still
// apply.
func (f *InputField[T]) SetEnabled(enabled *Decision) {
	f.mu.Lock()
	if enabled == nil {
		enabled = BoolDecision(true)
	}
	if f.restriction != nil {
		enabled = And(enabled, f.restriction)
	}
	f.enabled = enabled
	f.mu.Unlock()
	f.notify()
}

// restrict denies enablement for good, whatever SetEnabled is given later.
func (f *InputField[T]) restrict(d *Decision) {
	f.mu.Lock()
	f.restriction = d
	f.enabled = And(f.enabled, d)
	f.mu.Unlock()
}

// AllMessages returns a copy of the messages grouped by location.
func (f *InputField[T]) AllMessages() AllMessages {
	f.mu.Lock()
	defer f.mu.Unlock()
	return groupMessages(f.messages)
}

// Messages returns the messages at one location.
func (f *InputField[T]) Messages(location string) []FieldMessage {
	return f.AllMessages()[location]
}

func groupMessages(messages []MessageAt) AllMessages {
	all := make(AllMessages)
	for _, m := range messages {
		all[m.Location] = append(all[m.Location], m.FieldMessage)
	}
	return all
}

// HasProblems reports whether any message at any location is an error.
func (f *InputField[T]) HasProblems() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasProblemsLocked()
}

func (f *InputField[T]) hasProblemsLocked() bool {
	for _, m := range f.messages {
		if m.Level() == MessageError {
			return true
		}
	}
	return false
}

// IsValidated reports whether the last validation pass completed and its
// messages have not been cleared since.
func (f *InputField[T]) IsValidated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isValidated
}

// ValidationPending reports whether a validation is in flight, masked by
// ShowValidationPending.
func (f *InputField[T]) ValidationPending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showPending && f.pending != 0
}

// ValidationStatusMessage returns the latest status reported by a
// long-running validator.
func (f *InputField[T]) ValidationStatusMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusMessage
}

// ValidatorProgress returns the latest progress (0..1) reported by a
// validator; ok is false if none was reported.
func (f *InputField[T]) ValidatorProgress() (progress float64, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress, f.progress != 0
}

// Snapshot is a consistent read of everything a renderer needs.
type Snapshot struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Kind              string      `json:"kind"`
	Label             string      `json:"label"`
	Visible           bool        `json:"visible"`
	Enabled           bool        `json:"enabled"`
	WhyDisabled       string      `json:"whyDisabled,omitempty"`
	Messages          AllMessages `json:"messages"`
	HasProblems       bool        `json:"hasProblems"`
	IsValidated       bool        `json:"isValidated"`
	ValidationPending bool        `json:"validationPending"`
	StatusMessage     string      `json:"statusMessage,omitempty"`
	Progress          float64     `json:"progress,omitempty"`
}

// Snapshot returns the field's observable state under a single lock.
func (f *InputField[T]) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	enabled := GetVerdict(f.enabled, true)
	s := Snapshot{
		ID:                f.id,
		Name:              f.common.Name,
		Kind:              f.kind.String(),
		Label:             f.label,
		Visible:           f.visible,
		Enabled:           enabled,
		Messages:          groupMessages(f.messages),
		HasProblems:       f.hasProblemsLocked(),
		IsValidated:       f.isValidated,
		ValidationPending: f.showPending && f.pending != 0,
		StatusMessage:     f.statusMessage,
		Progress:          f.progress,
	}
	if !enabled {
		s.WhyDisabled = GetReason(f.enabled)
	}
	return s
}

// Effects describes what a value update did, and what is still due.
//
// The field never starts validation on its own: the caller decides whether
// to run the due validation inline, in a goroutine, or not at all.
type Effects struct {
	// Changed is false if the new value equals the last seen one.
	Changed bool
	// Cleared is true if stale messages were dropped.
	Cleared bool
	// Validation holds the params of a due validation, or nil.
	Validation *ValidationParams

	validate func(context.Context, ValidationParams) bool
}

// Run performs the due validation, if any, and reports whether it found an
// error.
func (e Effects) Run(ctx context.Context) bool {
	if e.Validation == nil || e.validate == nil {
		return false
	}
	return e.validate(ctx, *e.Validation)
}

// SetValue stores a new value and reacts to the change.
//
// If the value differs from the previous one, OnValueChange is called. Then,
// for a visible field, either a "change" validation becomes due (when
// ValidateOnChange applies) or all messages are cleared, since they describe
// a value that is gone.
func (f *InputField[T]) SetValue(v T) Effects {
	f.mu.Lock()
	f.value = v
	if f.tools.IsEqual(v, f.lastSeen) {
		f.mu.Unlock()
		return Effects{}
	}
	f.lastSeen = v
	eff := Effects{Changed: true}
	isStillFresh := func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.tools.IsEqual(f.lastSeen, v)
	}
	if f.visible {
		isEmpty := f.tools.IsEmpty(f.clean(v))
		if f.common.ValidateOnChange && (!isEmpty || f.common.ValidateEmptyOnChange) {
			eff.Validation = &ValidationParams{Reason: ReasonChange, IsStillFresh: isStillFresh}
			eff.validate = f.Validate
		} else {
			f.messages = nil
			f.isValidated = false
			f.pending = 0
			eff.Cleared = true
		}
	}
	onChange := f.onValueChange
	f.mu.Unlock()

	f.log.Debug("value changed", "id", f.id, "validationDue", eff.Validation != nil, "cleared", eff.Cleared)
	if onChange != nil {
		onChange(v, isStillFresh)
	}
	f.notify()
	return eff
}

// Reset restores the initial value.
func (f *InputField[T]) Reset() Effects {
	return f.SetValue(f.initial)
}

// ClearErrorMessage removes non-info messages with exactly this text.
func (f *InputField[T]) ClearErrorMessage(text string) {
	f.removeMessages(func(m MessageAt) bool {
		return m.Text == text && m.Level() != MessageInfo
	})
}

// ClearMessagesAt removes all messages at a location.
func (f *InputField[T]) ClearMessagesAt(location string) {
	f.removeMessages(func(m MessageAt) bool { return m.Location == location })
}

// ClearAllMessages removes every message. The reason is only logged.
func (f *InputField[T]) ClearAllMessages(reason string) {
	f.log.Debug("clearing all messages", "id", f.id, "reason", reason)
	f.removeMessages(func(MessageAt) bool { return true })
}

func (f *InputField[T]) removeMessages(drop func(MessageAt) bool) {
	f.mu.Lock()
	kept := f.messages[:0:0]
	for _, m := range f.messages {
		if !drop(m) {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	f.isValidated = false
	f.mu.Unlock()
	f.notify()
}

func (f *InputField[T]) addMessage(m MessageAt) {
	f.mu.Lock()
	f.messages = append(f.messages, m)
	f.mu.Unlock()
	f.notify()
}

// Subscribe registers fn to be called after every observable state change.
// The returned function removes the subscription.
func (f *InputField[T]) Subscribe(fn func()) (cancel func()) {
	f.mu.Lock()
	key := f.nextListener
	f.nextListener++
	f.listeners[key] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, key)
		f.mu.Unlock()
	}
}

func (f *InputField[T]) notify() {
	f.mu.Lock()
	listeners := make([]func(), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Flatten makes a single field usable as a Group.
func (f *InputField[T]) Flatten() []FieldLike {
	return []FieldLike{f}
}
