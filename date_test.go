package hxform

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateDefaults(t *testing.T) {
	before := time.Now()
	f := Must(NewDateField(DateProps{Common: Common{Name: "when"}}))
	assert.False(t, f.Value().Before(before), "initial value defaults to now")
	assert.Equal(t, DateTimeLocal, f.Type())
}

func TestDateLimits(t *testing.T) {
	minDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDate := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value time.Time
		want  string
	}{
		{"inside", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), ""},
		{"too early", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), "Please use a date after 2024-01-01 00:00:00"},
		{"too late", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "Please use a date before 2024-12-31 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Must(NewDateField(DateProps{
				Common:       Common{Name: "when"},
				InitialValue: tt.value,
				MinDate:      minDate,
				MaxDate:      maxDate,
			}))
			hasError := f.Validate(context.Background(), submit())
			if tt.want == "" {
				assert.False(t, hasError)
				return
			}
			assert.True(t, hasError)
			assert.Equal(t, tt.want, f.AllMessages().Root()[0].Text)
		})
	}
}

func TestDateLimitsComeBeforeUserValidators(t *testing.T) {
	var called bool
	f := Must(NewDateField(DateProps{
		Common:       Common{Name: "when"},
		InitialValue: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		MinDate:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Validators: []Validator[time.Time]{Check(func(time.Time) []Finding {
			called = true
			return nil
		})},
	}))
	assert.True(t, f.Validate(context.Background(), submit()))
	assert.False(t, called)
}

func TestDateSetRaw(t *testing.T) {
	f := Must(NewDateField(DateProps{Common: Common{Name: "day"}, Type: DateOnly}))
	_, err := f.SetRaw("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", f.FormValue())

	_, err = f.SetRaw("05/03/2024")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.SetRaw("")
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

func TestDateEqualityIgnoresLocation(t *testing.T) {
	instant := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	f := Must(NewDateField(DateProps{Common: Common{Name: "at"}, InitialValue: instant}))
	eff := f.SetValue(instant.In(time.FixedZone("X", 3600)))
	assert.False(t, eff.Changed)
}
