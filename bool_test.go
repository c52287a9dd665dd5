package hxform

import (
	"context"
	"testing"
)

func TestBoolSetRaw(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{"", false, false},
		{"on", true, false},
		{"off", false, false},
		{"true", true, false},
		{"1", true, false},
		{"false", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f := Must(NewBoolField(BoolProps{Common: Common{Name: "agree"}, InitialValue: !tt.want}))
			_, err := f.SetRaw(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SetRaw(%q) should fail", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetRaw(%q) error = %v", tt.raw, err)
			}
			if f.Value() != tt.want {
				t.Errorf("SetRaw(%q) value = %v, want %v", tt.raw, f.Value(), tt.want)
			}
		})
	}
}

func TestBoolNeverEmpty(t *testing.T) {
	f := Must(NewBoolField(BoolProps{Common: Common{Name: "agree", Required: true}}))
	if f.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if f.Validate(context.Background(), ValidationParams{Reason: ReasonSubmit}) {
		t.Error("Validate() reported an error for an unchecked box")
	}
	if f.PreferredWidget() != WidgetCheckbox {
		t.Errorf("PreferredWidget() = %q, want %q", f.PreferredWidget(), WidgetCheckbox)
	}
}

func TestBoolMustAgree(t *testing.T) {
	f := Must(NewBoolField(BoolProps{
		Common: Common{Name: "terms"},
		Validators: []Validator[bool]{Check(func(v bool) []Finding {
			if !v {
				return Problem("You must accept the terms")
			}
			return nil
		})},
	}))
	if !f.Validate(context.Background(), ValidationParams{Reason: ReasonSubmit}) {
		t.Error("Validate() = false, want true")
	}
	f.SetValue(true)
	if f.Validate(context.Background(), ValidationParams{Reason: ReasonSubmit}) {
		t.Error("Validate() = true after accepting")
	}
}
