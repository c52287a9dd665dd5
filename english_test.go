package hxform

import "testing"

func TestCamelToTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"email", "Email"},
		{"emailAddress", "Email Address"},
		{"firstNameOfUser", "First Name Of User"},
		{"URL", "URL"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CamelToTitleCase(tt.input); got != tt.want {
				t.Errorf("CamelToTitleCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCapitalization(t *testing.T) {
	if got := CapitalizeFirstLetter("hello"); got != "Hello" {
		t.Errorf("CapitalizeFirstLetter() = %q, want %q", got, "Hello")
	}
	if got := DecapitalizeFirstLetter("Hello"); got != "hello" {
		t.Errorf("DecapitalizeFirstLetter() = %q, want %q", got, "hello")
	}
	if got := CapitalizeFirstLetter(""); got != "" {
		t.Errorf("CapitalizeFirstLetter(\"\") = %q, want empty", got)
	}
}

func TestThereIsOnly(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "there is none"},
		{1, "there is only one"},
		{3, "there are only 3"},
	}

	for _, tt := range tests {
		if got := ThereIsOnly(tt.amount); got != tt.want {
			t.Errorf("ThereIsOnly(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestAtLeastXItems(t *testing.T) {
	if got, err := AtLeastXItems(1); err != nil || got != "at least one item" {
		t.Errorf("AtLeastXItems(1) = %q, %v", got, err)
	}
	if got, err := AtLeastXItems(4); err != nil || got != "at least 4 items" {
		t.Errorf("AtLeastXItems(4) = %q, %v", got, err)
	}
	if _, err := AtLeastXItems(0); err == nil {
		t.Error("AtLeastXItems(0) should fail")
	}
}
