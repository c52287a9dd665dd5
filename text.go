package hxform

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NoLimit disables a length check.
const NoLimit = -1

// TextProps configures a TextField.
type TextProps struct {
	Common

	InitialValue string

	// CleanUp defaults to strings.TrimSpace.
	CleanUp func(string) string

	// MinLength defaults to 1, MaxLength to 1000. Lengths are counted in
	// runes; empty values are left to the required check.
	MinLength       int
	TooShortMessage NumberMessage
	MaxLength       int
	TooLongMessage  NumberMessage

	AutoFocus bool
	HideInput bool
	OnEnter   func(value string)

	Validators          []Validator[string]
	ValidatorsGenerator func(string) []Validator[string]
	OnValueChange       func(value string, isStillFresh func() bool)
}

// TextField holds a single line of text. Blank values count as empty.
type TextField struct {
	*InputField[string]
	autoFocus bool
	hideInput bool
	onEnter   func(string)
	minLength int
	maxLength int
}

// NewTextField creates a text field. Length checks run before the given
// validators.
func NewTextField(props TextProps) (*TextField, error) {
	minLength := props.MinLength
	if minLength == 0 {
		minLength = 1
	}
	tooShort := props.TooShortMessage
	if tooShort == nil {
		tooShort = func(n int) string { return fmt.Sprintf("Please specify at least %d characters!", n) }
	}
	maxLength := props.MaxLength
	if maxLength == 0 {
		maxLength = 1000
	}
	tooLong := props.TooLongMessage
	if tooLong == nil {
		tooLong = func(n int) string { return fmt.Sprintf("Please specify at most %d characters!", n) }
	}
	cleanUp := props.CleanUp
	if cleanUp == nil {
		cleanUp = strings.TrimSpace
	}

	builtins := []Validator[string]{
		Check(func(value string) []Finding {
			n := utf8.RuneCountInString(value)
			if minLength <= 0 || value == "" || n >= minLength {
				return nil
			}
			return Problem(fmt.Sprintf("tooShort: %s (Currently: %d)", tooShort(minLength), n))
		}),
		Check(func(value string) []Finding {
			n := utf8.RuneCountInString(value)
			if maxLength <= 0 || value == "" || n <= maxLength {
				return nil
			}
			return Problem(fmt.Sprintf("tooLong: %s (Currently: %d)", tooLong(maxLength), n))
		}),
	}
	generator, err := prependValidators(props.Name, builtins, props.Validators, props.ValidatorsGenerator)
	if err != nil {
		return nil, err
	}

	field, err := NewInputField(KindText, Props[string]{
		Common:              props.Common,
		InitialValue:        props.InitialValue,
		CleanUp:             cleanUp,
		ValidatorsGenerator: generator,
		OnValueChange:       props.OnValueChange,
	}, DataType[string]{
		IsEmpty: func(s string) bool { return s == "" },
		IsEqual: func(a, b string) bool { return a == b },
	})
	if err != nil {
		return nil, err
	}
	return &TextField{
		InputField: field,
		autoFocus:  props.AutoFocus,
		hideInput:  props.HideInput,
		onEnter:    props.OnEnter,
		minLength:  minLength,
		maxLength:  maxLength,
	}, nil
}

// NewTextFieldNamed is the short form for the common case.
func NewTextFieldNamed(name, description string, required bool) (*TextField, error) {
	return NewTextField(TextProps{Common: Common{Name: name, Description: description, Required: required}})
}

// AutoFocus reports whether the input should take focus on page load.
func (f *TextField) AutoFocus() bool { return f.autoFocus }

// InputType is the HTML input type: "password" for hidden input.
func (f *TextField) InputType() string {
	if f.hideInput {
		return "password"
	}
	return "text"
}

// MaxLength returns the enforced maximum, or NoLimit.
func (f *TextField) MaxLength() int { return f.maxLength }

// Enter reports that the user pressed enter in the field.
func (f *TextField) Enter() {
	if f.onEnter != nil {
		f.onEnter(f.Value())
	}
}

// SetRaw stores browser input as is; cleanup happens on validation.
func (f *TextField) SetRaw(raw string) (Effects, error) {
	return f.SetValue(raw), nil
}

// Flatten makes the field usable as a Group.
func (f *TextField) Flatten() []FieldLike {
	return []FieldLike{f}
}
