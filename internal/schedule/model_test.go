package schedule

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:00", 9 * 60, false},
		{"13:30:00", 13*60 + 30, false},
		{"23:59", 23*60 + 59, false},
		{"24:00", 0, true},
		{"9am", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(monday))
	assert.Equal(t, Sunday, WeekdayOf(monday.AddDate(0, 0, 6)))
	assert.Equal(t, Saturday, WeekdayOf(monday.AddDate(0, 0, 5)))
}

func TestWeekdaySet(t *testing.T) {
	s, err := NewWeekdaySet(5, 1, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, []Weekday{Monday, Wednesday, Friday}, s.Days())
	assert.True(t, s.Has(Wednesday))
	assert.False(t, s.Has(Sunday))
	assert.Equal(t, "Mon,Wed,Fri", s.String())
	assert.False(t, s.Remove(Monday).Has(Monday))

	_, err = NewWeekdaySet(0)
	assert.Error(t, err)
	_, err = NewWeekdaySet(8)
	assert.Error(t, err)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,3,5]`, string(b))

	var decoded WeekdaySet
	require.NoError(t, json.Unmarshal([]byte(`[7,6]`), &decoded))
	assert.Equal(t, []Weekday{Saturday, Sunday}, decoded.Days())
	assert.Error(t, json.Unmarshal([]byte(`[9]`), &decoded))

	var empty WeekdaySet
	assert.True(t, empty.Empty())
	assert.True(t, empty.Add(Weekday(0)).Empty())
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Definition)
		ok     bool
	}{
		{"valid", func(d *Definition) {}, true},
		{"start after end", func(d *Definition) { d.StartTime, d.EndTime = d.EndTime, d.StartTime }, false},
		{"equal bounds", func(d *Definition) { d.EndTime = d.StartTime }, false},
		{"half break", func(d *Definition) { d.BreakEnd = nil }, false},
		{"inverted break", func(d *Definition) { d.BreakStart, d.BreakEnd = d.BreakEnd, d.BreakStart }, false},
		{"break outside hours", func(d *Definition) { d.BreakEnd = clockPtr("19:00") }, false},
		{"break touching bounds", func(d *Definition) { d.BreakStart, d.BreakEnd = clockPtr("09:00"), clockPtr("18:00") }, true},
		{"zero slot", func(d *Definition) { d.SlotDurationMinutes = 0 }, false},
		{"negative buffer", func(d *Definition) { d.BufferMinutes = -5 }, false},
		{"bad weekday", func(d *Definition) { d.DayOfWeek = 8 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := def("09:00", "18:00", "13:00", "14:00", 60, 0)
			tt.mutate(d)
			err := d.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestWeekWorkingWindow(t *testing.T) {
	mon := def("09:00", "18:00", "", "", 60, 0)
	tue := def("10:00", "16:00", "", "", 60, 0)
	tue.DayOfWeek = Tuesday
	tue.IsWorkingDay = false
	week := Week{mon, tue}

	start, end, err := week.WorkingWindow(monday)
	require.NoError(t, err)
	assert.Equal(t, monday.Add(9*time.Hour), start)
	assert.Equal(t, monday.Add(18*time.Hour), end)

	_, _, err = week.WorkingWindow(monday.AddDate(0, 0, 1))
	assert.True(t, errors.Is(err, ErrNotWorkingDay))

	_, _, err = week.WorkingWindow(monday.AddDate(0, 0, 2))
	assert.True(t, errors.Is(err, ErrNotWorkingDay))

	assert.Equal(t, []Weekday{Monday}, week.WorkingDays().Days())
}

func TestOverrideApply(t *testing.T) {
	base := def("09:00", "18:00", "13:00", "14:00", 45, 15)
	base.IsFlexible = true

	dayOff := &Override{ProviderID: "p1", Date: monday, IsWorkingDay: false}
	require.NoError(t, dayOff.Validate())
	assert.Empty(t, GenerateSlots(dayOff.Apply(base), monday))

	short := &Override{
		ProviderID:   "p1",
		Date:         monday,
		IsWorkingDay: true,
		StartTime:    clockPtr("12:00"),
		EndTime:      clockPtr("15:00"),
	}
	require.NoError(t, short.Validate())
	eff := short.Apply(base)
	assert.Equal(t, 45, eff.SlotDurationMinutes)
	assert.Equal(t, 15, eff.BufferMinutes)
	assert.True(t, eff.IsFlexible)
	assert.False(t, eff.HasBreak())
	assert.Equal(t, []string{"12:00", "13:00", "14:00"}, clocks(GenerateSlots(eff, monday)))

	noBase := short.Apply(nil)
	assert.Equal(t, DefaultSlotDurationMinutes, noBase.SlotDurationMinutes)

	missingHours := &Override{ProviderID: "p1", Date: monday, IsWorkingDay: true}
	assert.ErrorIs(t, missingHours.Validate(), ErrInvalidSchedule)
}
