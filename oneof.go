package hxform

import (
	"context"
	"fmt"
	"strings"
)

// PleaseSelectKey is the render value of the placeholder choice.
const PleaseSelectKey = "__PLEASE_SELECT__"

// Choice is one option of a OneOfField. Label defaults to the capitalized
// value.
type Choice[T comparable] struct {
	Value       T
	Label       string
	Description string
	Enabled     *Decision
	Hidden      bool
	Class       string
}

// ChoiceView is a visible choice as renderers see it.
type ChoiceView struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
	WhyDisabled string `json:"whyDisabled,omitempty"`
	Class       string `json:"class,omitempty"`
}

// OneOfProps configures a OneOfField.
type OneOfProps[T comparable] struct {
	// Common.Placeholder, when set, makes the field nullable: a placeholder
	// choice with that label comes first and stands for "no value".
	Common

	// PlaceholderDefault makes the field nullable with the label
	// "Please select!".
	PlaceholderDefault bool
	// CanSelectPlaceholder defaults to true.
	CanSelectPlaceholder *bool

	Choices      []Choice[T]
	InitialValue *T

	HideDisabledChoices           bool
	DisableIfOnlyOneVisibleChoice bool

	Validators          []Validator[T]
	ValidatorsGenerator func(T) []Validator[T]
	OnValueChange       func(value T, isSet bool, isStillFresh func() bool)
}

// OneOfField selects one value from a list of choices.
//
// Nullable fields hold no value while the placeholder is selected; Value
// then reports false. Validators only ever see real values.
type OneOfField[T comparable] struct {
	*InputField[*T]
	nullable bool
	choices  []ChoiceView
	byKey    map[string]T
}

// NewOneOfField creates a choice field. Without an InitialValue the first
// enabled visible choice is selected, or the placeholder on nullable
// fields. It fails with ErrNoChoices if no choice is visible.
func NewOneOfField[T comparable](props OneOfProps[T]) (*OneOfField[T], error) {
	nullable := props.Placeholder != "" || props.PlaceholderDefault
	common := props.Common
	common.ValidateEmptyOnChange = true

	type expanded struct {
		view   ChoiceView
		value  *T
		hidden bool
	}
	var all []expanded
	if nullable {
		label := props.Placeholder
		if label == "" {
			label = "Please select!"
		}
		if common.RequiredMessage == "" {
			common.RequiredMessage = "Please select an option!"
		}
		canSelect := props.CanSelectPlaceholder == nil || *props.CanSelectPlaceholder
		all = append(all, expanded{view: ChoiceView{
			Key:     PleaseSelectKey,
			Label:   label,
			Enabled: canSelect,
			Class:   "text-muted-foreground",
		}})
	}
	byKey := make(map[string]T, len(props.Choices))
	for _, c := range props.Choices {
		value := c.Value
		label := c.Label
		if label == "" {
			label = CapitalizeFirstLetter(strings.TrimSpace(fmt.Sprint(value)))
		}
		key := fmt.Sprint(value)
		if _, dup := byKey[key]; !dup {
			byKey[key] = value
		}
		all = append(all, expanded{value: &value, hidden: c.Hidden, view: ChoiceView{
			Key:         key,
			Label:       label,
			Description: c.Description,
			Enabled:     GetVerdict(c.Enabled, true),
			WhyDisabled: ReasonForDenial(c.Enabled),
			Class:       c.Class,
		}})
	}

	var visible, available []expanded
	for _, c := range all {
		if c.hidden || (props.HideDisabledChoices && !c.view.Enabled) {
			continue
		}
		visible = append(visible, c)
		if c.view.Key == PleaseSelectKey || c.view.Enabled {
			available = append(available, c)
		}
	}

	var initial *T
	switch {
	case props.InitialValue != nil:
		v := *props.InitialValue
		initial = &v
	case len(available) > 0:
		initial = available[0].value
	case len(visible) > 0:
		initial = visible[0].value
	default:
		return nil, fieldError(props.Name, ErrNoChoices, "")
	}

	var onChange func(*T, func() bool)
	if props.OnValueChange != nil {
		onChange = func(v *T, isStillFresh func() bool) {
			var value T
			if v != nil {
				value = *v
			}
			props.OnValueChange(value, v != nil, isStillFresh)
		}
	}
	var generator func(*T) []Validator[*T]
	if props.ValidatorsGenerator != nil {
		generator = func(v *T) []Validator[*T] {
			if v == nil {
				return nil
			}
			return liftValidators(props.ValidatorsGenerator(*v))
		}
	}

	field, err := NewInputField(KindOneOf, Props[*T]{
		Common:              common,
		InitialValue:        initial,
		Validators:          liftValidators(props.Validators),
		ValidatorsGenerator: generator,
		OnValueChange:       onChange,
	}, DataType[*T]{
		IsEmpty: func(v *T) bool { return v == nil },
		IsEqual: func(a, b *T) bool {
			if a == nil || b == nil {
				return a == b
			}
			return *a == *b
		},
	})
	if err != nil {
		return nil, err
	}
	if props.DisableIfOnlyOneVisibleChoice && len(visible) <= 1 &&
		(len(visible) == 0 || visible[0].view.Key != PleaseSelectKey) {
		field.restrict(Deny("Currently no other choice is available."))
	}

	views := make([]ChoiceView, len(visible))
	for i, c := range visible {
		views[i] = c.view
	}
	return &OneOfField[T]{InputField: field, nullable: nullable, choices: views, byKey: byKey}, nil
}

func liftValidators[T comparable](validators []Validator[T]) []Validator[*T] {
	if validators == nil {
		return nil
	}
	lifted := make([]Validator[*T], len(validators))
	for i, v := range validators {
		if v == nil {
			continue
		}
		lifted[i] = func(ctx context.Context, value *T, controls ValidatorControls, reason Reason) ([]Finding, error) {
			if value == nil {
				return nil, nil
			}
			return v(ctx, *value, controls, reason)
		}
	}
	return lifted
}

// Nullable reports whether the field has a placeholder choice.
func (f *OneOfField[T]) Nullable() bool { return f.nullable }

// Choices returns the visible choices in order, placeholder first.
func (f *OneOfField[T]) Choices() []ChoiceView {
	return append([]ChoiceView(nil), f.choices...)
}

// Value returns the selected value; ok is false while the placeholder is
// selected.
func (f *OneOfField[T]) Value() (value T, ok bool) {
	v := f.InputField.Value()
	if v == nil {
		return value, false
	}
	return *v, true
}

// AnyValue returns the selected value, or nil for the placeholder.
func (f *OneOfField[T]) AnyValue() any {
	if v, ok := f.Value(); ok {
		return v
	}
	return nil
}

// SetValue selects v. Use Unset to select the placeholder.
func (f *OneOfField[T]) SetValue(v T) Effects {
	return f.InputField.SetValue(&v)
}

// Unset selects the placeholder. It does nothing on fields without one.
func (f *OneOfField[T]) Unset() Effects {
	if !f.nullable {
		return Effects{}
	}
	return f.InputField.SetValue(nil)
}

// Reset restores the initial selection.
func (f *OneOfField[T]) Reset() Effects {
	return f.InputField.Reset()
}

// RenderValue returns the key of the current selection.
func (f *OneOfField[T]) RenderValue() string {
	v, ok := f.Value()
	if !ok {
		return PleaseSelectKey
	}
	return fmt.Sprint(v)
}

// SetRenderValue selects a choice by key.
func (f *OneOfField[T]) SetRenderValue(key string) (Effects, error) {
	if key == PleaseSelectKey && f.nullable {
		return f.Unset(), nil
	}
	v, ok := f.byKey[key]
	if !ok {
		return Effects{}, fmt.Errorf("%w: no choice %q in field %q", ErrInvalidInput, key, f.Name())
	}
	return f.SetValue(v), nil
}

// SetRaw selects the choice whose key a browser posted.
func (f *OneOfField[T]) SetRaw(raw string) (Effects, error) {
	return f.SetRenderValue(raw)
}

// Flatten makes the field usable as a Group.
func (f *OneOfField[T]) Flatten() []FieldLike {
	return []FieldLike{f}
}
