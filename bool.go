package hxform

import (
	"fmt"
	"strconv"
	"strings"
)

// Widget is the preferred control for a boolean field.
type Widget string

// Supported widgets.
const (
	WidgetCheckbox Widget = "checkbox"
	WidgetSwitch   Widget = "switch"
)

// BoolProps configures a BoolField. PreferredWidget defaults to a checkbox.
type BoolProps struct {
	Common

	InitialValue    bool
	PreferredWidget Widget

	Validators          []Validator[bool]
	ValidatorsGenerator func(bool) []Validator[bool]
	OnValueChange       func(value bool, isStillFresh func() bool)
}

// BoolField is a yes/no field. It is never empty, so Required has no effect.
type BoolField struct {
	*InputField[bool]
	widget Widget
}

// NewBoolField creates a boolean field.
func NewBoolField(props BoolProps) (*BoolField, error) {
	widget := props.PreferredWidget
	if widget == "" {
		widget = WidgetCheckbox
	}
	field, err := NewInputField(KindBool, Props[bool]{
		Common:              props.Common,
		InitialValue:        props.InitialValue,
		Validators:          props.Validators,
		ValidatorsGenerator: props.ValidatorsGenerator,
		OnValueChange:       props.OnValueChange,
	}, Comparable[bool]())
	if err != nil {
		return nil, err
	}
	return &BoolField{InputField: field, widget: widget}, nil
}

// PreferredWidget is the control renderers should use.
func (f *BoolField) PreferredWidget() Widget { return f.widget }

// SetRaw sets the value from form input. Browsers omit unchecked checkboxes,
// so the empty string means false.
func (f *BoolField) SetRaw(raw string) (Effects, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "off":
		return f.SetValue(false), nil
	case "on":
		return f.SetValue(true), nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return Effects{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidInput, raw)
	}
	return f.SetValue(v), nil
}

// Flatten makes the field usable as a Group.
func (f *BoolField) Flatten() []FieldLike {
	return []FieldLike{f}
}
