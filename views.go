package hxform

import "context"

// The interfaces below are the untyped faces of the generic field types,
// used where the value type is not known statically.

// RawSetter accepts browser form input.
type RawSetter interface {
	SetRaw(raw string) (Effects, error)
}

// Selector is implemented by every OneOfField.
type Selector interface {
	FieldLike
	RawSetter
	Choices() []ChoiceView
	RenderValue() string
	Nullable() bool
}

// Display is implemented by every LabelField.
type Display interface {
	FieldLike
	Content() string
	TagName() string
	Classes() []string
}

// Trigger is implemented by every ActionField.
type Trigger interface {
	FieldLike
	Trigger(ctx context.Context) error
	Confirm() bool
	Deny() bool
	ConfirmationNeeded() *ConfirmationRequest
	IsPending() bool
	Variant() string
	Size() string
	Color() string
}

// Trigger executes the action, discarding its result.
func (f *ActionField[R]) Trigger(ctx context.Context) error {
	_, err := f.Execute(ctx)
	return err
}

var (
	_ Selector  = (*OneOfField[string])(nil)
	_ Display   = (*LabelField[string])(nil)
	_ Trigger   = (*ActionField[struct{}])(nil)
	_ RawSetter = (*TextField)(nil)
	_ RawSetter = (*BoolField)(nil)
	_ RawSetter = (*DateField)(nil)
	_ FieldLike = (*InputField[int])(nil)
)
