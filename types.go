package hxform

import (
	"bytes"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind tells renderers which control a field needs.
type Kind int

// Field kinds.
const (
	KindText Kind = iota + 1
	KindBool
	KindDate
	KindOneOf
	KindLabel
	KindAction
)

// String returns the name renderers use in class names and data attributes.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	case KindOneOf:
		return "oneOf"
	case KindLabel:
		return "label"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// DataType supplies the emptiness and equality semantics of a value type.
// The field core never inspects values itself.
type DataType[T any] struct {
	IsEmpty func(T) bool
	IsEqual func(a, b T) bool
}

// NoType is used by pseudo-fields without a meaningful value (actions).
var NoType = DataType[struct{}]{
	IsEmpty: func(struct{}) bool { return true },
	IsEqual: func(_, _ struct{}) bool { return true },
}

// Comparable returns tools for plain comparable values that are never empty.
func Comparable[T comparable]() DataType[T] {
	return DataType[T]{
		IsEmpty: func(T) bool { return false },
		IsEqual: func(a, b T) bool { return a == b },
	}
}

// Deep returns tools comparing values by their canonical msgpack encoding,
// for values that are not comparable with ==. isEmpty may be nil.
func Deep[T any](isEmpty func(T) bool) DataType[T] {
	if isEmpty == nil {
		isEmpty = func(T) bool { return false }
	}
	return DataType[T]{
		IsEmpty: isEmpty,
		IsEqual: func(a, b T) bool { return DeepEqual(a, b) },
	}
}

// DeepEqual compares two values by their canonical msgpack encoding (map keys
// sorted). Values msgpack cannot encode fall back to reflect.DeepEqual.
func DeepEqual(a, b any) bool {
	fa, errA := Fingerprint(a)
	fb, errB := Fingerprint(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(fa, fb)
}

// Fingerprint returns the canonical msgpack encoding of v.
func Fingerprint(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
