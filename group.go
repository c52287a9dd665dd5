package hxform

import (
	"context"
	"sort"
)

// FieldLike is what groups, renderers and bindings need from a field,
// whatever its value type.
type FieldLike interface {
	Group
	ID() string
	Name() string
	Kind() Kind
	Label() string
	Description() string
	IsVisible() bool
	IsEnabled() bool
	Validate(ctx context.Context, params ValidationParams) bool
	HasProblems() bool
	AnyValue() any
	Snapshot() Snapshot
	Subscribe(fn func()) (cancel func())
}

// Group is any arrangement of fields.
type Group interface {
	Flatten() []FieldLike
}

// Row lays out fields on one line.
type Row []FieldLike

// Flatten returns the fields of the row in order.
func (r Row) Flatten() []FieldLike {
	return append([]FieldLike(nil), r...)
}

// FieldArray is an ordered list of fields and rows.
type FieldArray []Group

// Flatten returns all fields of the array, rows expanded in place.
func (a FieldArray) Flatten() []FieldLike {
	var all []FieldLike
	for _, g := range a {
		all = append(all, g.Flatten()...)
	}
	return all
}

// FieldMap is a form keyed by name. It flattens in key order.
type FieldMap map[string]FieldLike

// Keys returns the map keys in sorted order.
func (m FieldMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten returns the fields in key order.
func (m FieldMap) Flatten() []FieldLike {
	all := make([]FieldLike, 0, len(m))
	for _, k := range m.Keys() {
		all = append(all, m[k])
	}
	return all
}

// ValidateFields validates every field in order with the same reason and
// freshness predicate, and reports whether any of them has an error.
// All fields are validated even after an error is found.
func ValidateFields(ctx context.Context, fields Group, reason Reason, isStillFresh func() bool) bool {
	hasError := false
	for _, field := range fields.Flatten() {
		if field.Validate(ctx, ValidationParams{Reason: reason, IsStillFresh: isStillFresh}) {
			hasError = true
		}
	}
	return hasError
}

// DoFieldsHaveAnError reports whether a visible field currently shows an
// error, without validating.
func DoFieldsHaveAnError(fields Group) bool {
	for _, field := range fields.Flatten() {
		if field.IsVisible() && field.HasProblems() {
			return true
		}
	}
	return false
}

// Find returns the flattened field with the given ID.
func Find(fields Group, id string) (FieldLike, bool) {
	for _, field := range fields.Flatten() {
		if field.ID() == id {
			return field, true
		}
	}
	return nil, false
}
