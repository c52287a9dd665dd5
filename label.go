package hxform

import (
	"context"
	"fmt"
	"strconv"
)

// LabelProps configures a LabelField.
type LabelProps[T any] struct {
	// Name defaults to a generated one.
	Name        string
	Label       string
	Description string
	Compact     bool

	Visible *bool
	Hidden  *bool

	ContainerClass     string
	ExpandHorizontally *bool

	Validators            []Validator[T]
	ValidateOnChange      bool
	ShowValidationSuccess bool

	// TagName is the element wrapping the content, "span" by default.
	TagName string
	Classes []string

	// Format turns the value into markdown. Defaults to fmt.Sprint.
	Format func(T) string

	Value T
}

// LabelField shows computed, read-only content within a form. It is hidden
// while the formatted content is empty.
type LabelField[T any] struct {
	*InputField[T]
	tagName string
	classes []string
	format  func(T) string
}

// NewLabelField creates a read-only label. It has no caption unless Label
// is set.
func NewLabelField[T any](props LabelProps[T]) (*LabelField[T], error) {
	name := props.Name
	if name == "" {
		name = "label" + strconv.FormatUint(fieldSeq.Add(1), 36)
	}
	format := props.Format
	if format == nil {
		format = func(v T) string { return fmt.Sprint(v) }
	}
	tagName := props.TagName
	if tagName == "" {
		tagName = "span"
	}
	field, err := NewInputField(KindLabel, Props[T]{
		Common: Common{
			Name:                  name,
			Label:                 props.Label,
			Description:           props.Description,
			Compact:               props.Compact,
			Visible:               props.Visible,
			Hidden:                props.Hidden,
			ContainerClass:        props.ContainerClass,
			ExpandHorizontally:    props.ExpandHorizontally,
			ValidateOnChange:      props.ValidateOnChange,
			ShowValidationSuccess: props.ShowValidationSuccess,
		},
		InitialValue: props.Value,
		Validators:   props.Validators,
	}, Deep(func(v T) bool { return format(v) == "" }))
	if err != nil {
		return nil, err
	}
	field.label = props.Label
	return &LabelField[T]{InputField: field, tagName: tagName, classes: props.Classes, format: format}, nil
}

// NewLabel returns a plain markdown label.
func NewLabel(content string) *LabelField[string] {
	return Must(NewLabelField(LabelProps[string]{Value: content}))
}

// Content returns the formatted markdown.
func (f *LabelField[T]) Content() string {
	return f.format(f.Value())
}

// TagName and Classes describe the element wrapping the content.
func (f *LabelField[T]) TagName() string   { return f.tagName }
func (f *LabelField[T]) Classes() []string { return f.classes }

// IsVisible additionally requires non-empty content.
func (f *LabelField[T]) IsVisible() bool {
	return f.InputField.IsVisible() && f.Content() != ""
}

// Validate skips labels without content, like any invisible field.
func (f *LabelField[T]) Validate(ctx context.Context, params ValidationParams) bool {
	if !f.IsVisible() {
		return false
	}
	return f.InputField.Validate(ctx, params)
}

// SetContent replaces the displayed value. Owners call this when the data
// the label is computed from changes.
func (f *LabelField[T]) SetContent(v T) Effects {
	return f.SetValue(v)
}

// Snapshot reports visibility the same way IsVisible does.
func (f *LabelField[T]) Snapshot() Snapshot {
	s := f.InputField.Snapshot()
	s.Visible = s.Visible && f.Content() != ""
	return s
}

// Flatten makes the label usable as a Group.
func (f *LabelField[T]) Flatten() []FieldLike {
	return []FieldLike{f}
}
