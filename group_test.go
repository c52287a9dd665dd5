package hxform

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validText(name string) *TextField {
	return Must(NewTextField(TextProps{Common: Common{Name: name}, InitialValue: "fine"}))
}

func invalidText(name string) *TextField {
	return Must(NewTextField(TextProps{Common: Common{Name: name, Required: true}}))
}

func TestValidateFields(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		fields Group
		want   bool
	}{
		{"one invalid", FieldArray{validText("a"), invalidText("b")}, true},
		{"all valid", FieldArray{validText("a"), validText("b")}, false},
		{"invalid in row", FieldArray{validText("a"), Row{validText("b"), invalidText("c")}}, true},
		{"invisible ignored", FieldArray{Must(NewTextField(TextProps{Common: Common{Name: "h", Required: true, Hidden: Flag(true)}}))}, false},
		{"map", FieldMap{"x": invalidText("x")}, true},
		{"empty", FieldArray{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateFields(ctx, tt.fields, ReasonSubmit, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateFieldsValidatesEveryField(t *testing.T) {
	first, second := invalidText("first"), invalidText("second")
	ValidateFields(context.Background(), FieldArray{first, second}, ReasonSubmit, nil)
	assert.True(t, first.IsValidated())
	assert.True(t, second.IsValidated(), "later fields are validated after an error")
	assert.True(t, DoFieldsHaveAnError(FieldArray{first, second}))
}

func TestValidateFieldsSharesPredicate(t *testing.T) {
	var asked atomic.Int32
	fresh := func() bool {
		asked.Add(1)
		return true
	}
	ValidateFields(context.Background(), Row{validText("a"), validText("b")}, ReasonSubmit, fresh)
	assert.Positive(t, asked.Load())
}

func TestDoFieldsHaveAnErrorIgnoresInvisible(t *testing.T) {
	f := invalidText("secret")
	f.Validate(context.Background(), submit())
	require.True(t, f.HasProblems())
	f.SetVisible(false)
	assert.False(t, DoFieldsHaveAnError(Row{f}))
}

func TestGetFieldValues(t *testing.T) {
	name := Must(NewTextField(TextProps{Common: Common{Name: "FirstName"}, InitialValue: "Ada"}))
	agree := Must(NewBoolField(BoolProps{Common: Common{Name: "agree"}, InitialValue: true}))
	note := NewLabel("Just a note")
	size := Must(NewOneOfField(OneOfProps[int]{Common: Common{Name: "size"}, Choices: []Choice[int]{{Value: 2}}}))

	values := GetFieldValues(FieldArray{Row{name, agree}, note, size})
	assert.Equal(t, map[string]any{"firstName": "Ada", "agree": true, "size": 2}, values)
}

func TestGetFieldMapValues(t *testing.T) {
	form := FieldMap{
		"user":  Must(NewTextField(TextProps{Common: Common{Name: "UserName"}, InitialValue: "ada"})),
		"intro": NewLabel("Welcome"),
	}
	assert.Equal(t, map[string]any{"user": "ada"}, GetFieldValues(form))
}

func TestFieldMapFlattensInKeyOrder(t *testing.T) {
	form := FieldMap{"b": validText("b"), "a": validText("a"), "c": validText("c")}
	var names []string
	for _, f := range form.Flatten() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestFind(t *testing.T) {
	a, b := validText("a"), validText("b")
	found, ok := Find(FieldArray{a, Row{b}}, b.ID())
	require.True(t, ok)
	assert.Equal(t, "b", found.Name())

	_, ok = Find(FieldArray{a}, "missing")
	assert.False(t, ok)
}
