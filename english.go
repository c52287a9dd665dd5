package hxform

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CamelToTitleCase turns an identifier like "emailAddress" into "Email Address".
// Labels default to this transform of the field name.
func CamelToTitleCase(s string) string {
	var sb strings.Builder
	var prev rune
	for i, r := range s {
		if i == 0 {
			sb.WriteRune(unicode.ToUpper(r))
			prev = r
			continue
		}
		if unicode.IsUpper(r) && !unicode.IsUpper(prev) && prev != ' ' {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

// CapitalizeFirstLetter upper-cases the first rune.
func CapitalizeFirstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// DecapitalizeFirstLetter lower-cases the first rune.
func DecapitalizeFirstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// ThereIsOnly phrases a small count: "there is none", "there is only one",
// "there are only 3".
func ThereIsOnly(amount int) string {
	switch {
	case amount <= 0:
		return "there is none"
	case amount == 1:
		return "there is only one"
	default:
		return fmt.Sprintf("there are only %d", amount)
	}
}

// AtLeastXItems phrases a lower bound on a number of items.
func AtLeastXItems(amount int) (string, error) {
	switch {
	case amount > 1:
		return fmt.Sprintf("at least %d items", amount), nil
	case amount == 1:
		return "at least one item", nil
	default:
		return "", fmt.Errorf("hxform: at least %d items is meaningless", amount)
	}
}
