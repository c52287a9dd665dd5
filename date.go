package hxform

import (
	"fmt"
	"time"
)

// DateType selects the HTML input used for a date field.
type DateType string

// Supported date inputs.
const (
	DateTimeLocal DateType = "datetime-local"
	DateOnly      DateType = "date"
	TimeOnly      DateType = "time"
)

// Layout is the time layout browsers use for the input value.
func (t DateType) Layout() string {
	switch t {
	case DateOnly:
		return "2006-01-02"
	case TimeOnly:
		return "15:04"
	default:
		return "2006-01-02T15:04"
	}
}

// DateProps configures a DateField.
type DateProps struct {
	Common

	// Type defaults to DateTimeLocal.
	Type DateType

	// InitialValue defaults to now.
	InitialValue time.Time

	// MinDate and MaxDate are ignored when zero.
	MinDate         time.Time
	TooEarlyMessage DateMessage
	MaxDate         time.Time
	TooLateMessage  DateMessage

	Validators          []Validator[time.Time]
	ValidatorsGenerator func(time.Time) []Validator[time.Time]
	OnValueChange       func(value time.Time, isStillFresh func() bool)
}

// DateField holds a point in time. The zero time counts as empty.
type DateField struct {
	*InputField[time.Time]
	dateType DateType
	minDate  time.Time
	maxDate  time.Time
}

// NewDateField creates a date field. MinDate and MaxDate checks run before
// the given validators.
func NewDateField(props DateProps) (*DateField, error) {
	dateType := props.Type
	if dateType == "" {
		dateType = DateTimeLocal
	}
	initial := props.InitialValue
	if initial.IsZero() {
		initial = time.Now()
	}
	tooEarly := props.TooEarlyMessage
	if tooEarly == nil {
		tooEarly = func(d time.Time) string { return "Please use a date after " + formatDate(d) }
	}
	tooLate := props.TooLateMessage
	if tooLate == nil {
		tooLate = func(d time.Time) string { return "Please use a date before " + formatDate(d) }
	}

	var builtins []Validator[time.Time]
	if !props.MinDate.IsZero() {
		minDate := props.MinDate
		builtins = append(builtins, Check(func(value time.Time) []Finding {
			if value.Before(minDate) {
				return Problem(tooEarly(minDate))
			}
			return nil
		}))
	}
	if !props.MaxDate.IsZero() {
		maxDate := props.MaxDate
		builtins = append(builtins, Check(func(value time.Time) []Finding {
			if value.After(maxDate) {
				return Problem(tooLate(maxDate))
			}
			return nil
		}))
	}
	generator, err := prependValidators(props.Name, builtins, props.Validators, props.ValidatorsGenerator)
	if err != nil {
		return nil, err
	}

	field, err := NewInputField(KindDate, Props[time.Time]{
		Common:              props.Common,
		InitialValue:        initial,
		ValidatorsGenerator: generator,
		OnValueChange:       props.OnValueChange,
	}, DataType[time.Time]{
		IsEmpty: time.Time.IsZero,
		IsEqual: time.Time.Equal,
	})
	if err != nil {
		return nil, err
	}
	return &DateField{InputField: field, dateType: dateType, minDate: props.MinDate, maxDate: props.MaxDate}, nil
}

func formatDate(d time.Time) string {
	return d.Format("2006-01-02 15:04:05")
}

// Type is the HTML input type of the field.
func (f *DateField) Type() DateType     { return f.dateType }
// MinDate and MaxDate return the configured bounds, zero if unbounded.
func (f *DateField) MinDate() time.Time { return f.minDate }
func (f *DateField) MaxDate() time.Time { return f.maxDate }

// FormValue formats the value for the HTML input.
func (f *DateField) FormValue() string {
	v := f.Value()
	if v.IsZero() {
		return ""
	}
	return v.Format(f.dateType.Layout())
}

// SetRaw parses form input in the local time zone. For TimeOnly fields the
// date part of the current value is kept.
func (f *DateField) SetRaw(raw string) (Effects, error) {
	if raw == "" {
		return f.SetValue(time.Time{}), nil
	}
	parsed, err := time.ParseInLocation(f.dateType.Layout(), raw, time.Local)
	if err != nil {
		return Effects{}, fmt.Errorf("%w: %q is not a valid %s", ErrInvalidInput, raw, f.dateType)
	}
	if f.dateType == TimeOnly {
		cur := f.Value()
		if cur.IsZero() {
			cur = time.Now()
		}
		parsed = time.Date(cur.Year(), cur.Month(), cur.Day(), parsed.Hour(), parsed.Minute(), 0, 0, cur.Location())
	}
	return f.SetValue(parsed), nil
}

// Flatten makes the field usable as a Group.
func (f *DateField) Flatten() []FieldLike {
	return []FieldLike{f}
}
