package hxform

import (
	"strings"
	"time"
	"unicode"
)

// MessageType is the severity of a field message.
type MessageType string

// Message severities, in increasing order.
const (
	MessageInfo    MessageType = "info"
	MessageWarning MessageType = "warning"
	MessageError   MessageType = "error"
)

// RootLocation is where messages land unless a validator says otherwise.
const RootLocation = "root"

// FieldMessage is a single validation finding.
//
// Signature is a short machine-readable identifier ("tooShort") used to
// tell messages apart; Text is the markdown shown to the user.
type FieldMessage struct {
	Signature string      `json:"signature,omitempty" msgpack:"s,omitempty"`
	Text      string      `json:"text" msgpack:"t"`
	Type      MessageType `json:"type" msgpack:"y"`
}

// Level returns the severity, treating an unset type as an error.
func (m FieldMessage) Level() MessageType {
	if m.Type == "" {
		return MessageError
	}
	return m.Type
}

// Key identifies the message for deduplication: the signature if present,
// else the text.
func (m FieldMessage) Key() string {
	if m.Signature != "" {
		return m.Signature
	}
	return m.Text
}

// MessageAt is a message attached to a named part of a field.
type MessageAt struct {
	FieldMessage
	Location string `json:"location" msgpack:"l"`
}

// AllMessages maps locations to their messages, in the order they were found.
type AllMessages map[string][]FieldMessage

// Root returns the messages at RootLocation.
func (m AllMessages) Root() []FieldMessage {
	return m[RootLocation]
}

// HasError reports whether any location holds an error.
func (m AllMessages) HasError() bool {
	for _, msgs := range m {
		if _, hasError := CheckMessages(msgs); hasError {
			return true
		}
	}
	return false
}

// CheckMessages scans messages for problems.
func CheckMessages(messages []FieldMessage) (hasWarning, hasError bool) {
	for _, m := range messages {
		switch m.Level() {
		case MessageWarning:
			hasWarning = true
		case MessageError:
			hasError = true
		}
	}
	return hasWarning, hasError
}

// ParseSignature splits "signature: text" into its parts.
//
// The part before the first colon is a signature only if it is non-empty and
// contains no whitespace, so ordinary sentences with colons are left alone:
//
//	ParseSignature("tooShort: Use more") // "tooShort", "Use more"
//	ParseSignature("Note: use more")     // "", "Note: use more"
//
// Callers rely on signatures for deduplication, so this format is stable.
func ParseSignature(s string) (signature, text string) {
	cut := strings.IndexByte(s, ':')
	if cut <= 0 {
		return "", s
	}
	candidate := s[:cut]
	if strings.IndexFunc(candidate, unicode.IsSpace) != -1 {
		return "", s
	}
	return candidate, strings.TrimSpace(s[cut+1:])
}

// Finding is what a validator reports: either Plain text or a structured
// Message. The set of implementations is closed.
type Finding interface {
	wrap(defaultLocation string, defaultType MessageType) (MessageAt, bool)
}

// Plain is a finding given as text, optionally prefixed with a signature.
// The empty string means "nothing to report".
type Plain string

func (p Plain) wrap(defaultLocation string, defaultType MessageType) (MessageAt, bool) {
	if p == "" {
		return MessageAt{}, false
	}
	signature, text := ParseSignature(string(p))
	return MessageAt{
		FieldMessage: FieldMessage{Signature: signature, Text: text, Type: defaultType},
		Location:     defaultLocation,
	}, true
}

// Message is a structured finding. An empty Type means error and an empty
// Location means RootLocation.
type Message struct {
	Signature string
	Text      string
	Type      MessageType
	Location  string
}

func (m Message) wrap(defaultLocation string, _ MessageType) (MessageAt, bool) {
	location := m.Location
	if location == "" {
		location = defaultLocation
	}
	return MessageAt{
		FieldMessage: FieldMessage{Signature: m.Signature, Text: m.Text, Type: FieldMessage{Type: m.Type}.Level()},
		Location:     location,
	}, true
}

// Problem is shorthand for a validator result holding a single plain finding.
func Problem(text string) []Finding {
	return []Finding{Plain(text)}
}

// Warning is shorthand for a validator result holding a single warning.
func Warning(text string) []Finding {
	signature, text := ParseSignature(text)
	return []Finding{Message{Signature: signature, Text: text, Type: MessageWarning}}
}

// NumberMessage renders a message that mentions a configured limit.
type NumberMessage func(limit int) string

// DateMessage renders a message that mentions a configured date.
type DateMessage func(limit time.Time) string

// FixedNumberMessage ignores the limit and always returns text.
func FixedNumberMessage(text string) NumberMessage {
	return func(int) string { return text }
}

// FixedDateMessage ignores the date and always returns text.
func FixedDateMessage(text string) DateMessage {
	return func(time.Time) string { return text }
}
