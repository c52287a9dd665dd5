package hxform

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelVisibilityFollowsContent(t *testing.T) {
	l := NewLabel("")
	assert.False(t, l.IsVisible())
	assert.False(t, l.Snapshot().Visible)

	l.SetContent("**Now** visible")
	assert.True(t, l.IsVisible())
	assert.Equal(t, "**Now** visible", l.Content())
}

func TestLabelDefaults(t *testing.T) {
	l := NewLabel("hello")
	assert.Equal(t, "span", l.TagName())
	assert.Equal(t, "", l.Label(), "labels have no caption by default")
	assert.Equal(t, KindLabel, l.Kind())
	assert.NotEmpty(t, l.Name())
}

func TestLabelFormat(t *testing.T) {
	l := Must(NewLabelField(LabelProps[int]{
		Name:    "total",
		Value:   3,
		TagName: "h2",
		Format:  func(n int) string { return fmt.Sprintf("Total: %d", n) },
	}))
	assert.Equal(t, "Total: 3", l.Content())
	assert.Equal(t, "h2", l.TagName())

	eff := l.SetContent(3)
	assert.False(t, eff.Changed)
	l.SetContent(4)
	assert.Equal(t, "Total: 4", l.Content())
}

func TestLabelValidators(t *testing.T) {
	l := Must(NewLabelField(LabelProps[string]{
		Name:  "summary",
		Value: "12 items",
		Validators: []Validator[string]{Check(func(string) []Finding {
			return []Finding{Message{Text: "Large order", Type: MessageWarning}}
		})},
	}))
	assert.False(t, l.Validate(context.Background(), submit()))
	assert.Len(t, l.AllMessages().Root(), 1)
}

func TestLabelHidden(t *testing.T) {
	l := Must(NewLabelField(LabelProps[string]{Name: "x", Value: "text", Hidden: Flag(true)}))
	assert.False(t, l.IsVisible())
}

func TestEmptyLabelDoesNotValidate(t *testing.T) {
	l := Must(NewLabelField(LabelProps[string]{
		Validators: []Validator[string]{
			Check(func(string) []Finding { return Problem("never: shown") }),
		},
	}))
	assert.False(t, l.IsVisible())
	assert.False(t, ValidateFields(context.Background(), FieldArray{l}, ReasonSubmit, nil))
	assert.False(t, l.HasProblems())

	l.SetContent("shown")
	assert.True(t, ValidateFields(context.Background(), FieldArray{l}, ReasonSubmit, nil))
}
