package schedule

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is 2026-10-19, a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func clockPtr(s string) *Clock {
	c := MustClock(s)
	return &c
}

func def(start, end string, breakStart, breakEnd string, slot, buffer int) *Definition {
	d := &Definition{
		ProviderID:          "p1",
		DayOfWeek:           Monday,
		StartTime:           MustClock(start),
		EndTime:             MustClock(end),
		IsWorkingDay:        true,
		SlotDurationMinutes: slot,
		BufferMinutes:       buffer,
	}
	if breakStart != "" {
		d.BreakStart = clockPtr(breakStart)
		d.BreakEnd = clockPtr(breakEnd)
	}
	return d
}

func clocks(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = ClockOf(t).String()
	}
	return out
}

func TestGenerateSlots_StandardDayWithLunch(t *testing.T) {
	slots := GenerateSlots(def("09:00", "18:00", "13:00", "14:00", 60, 0), monday)

	assert.Equal(t,
		[]string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00"},
		clocks(slots),
	)
	for _, s := range slots {
		assert.Equal(t, monday.Year(), s.Year())
		assert.Equal(t, monday.YearDay(), s.YearDay())
	}
}

func TestGenerateSlots_NotWorkingDay(t *testing.T) {
	d := def("09:00", "18:00", "", "", 60, 0)
	d.IsWorkingDay = false

	assert.Empty(t, GenerateSlots(d, monday))
	assert.Empty(t, GenerateSlots(nil, monday))
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	d := def("08:30", "20:00", "12:15", "13:05", 50, 10)

	first := GenerateSlots(d, monday)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, GenerateSlots(d, monday))
	}
}

func TestGenerateSlots_BreakExclusion(t *testing.T) {
	for slot := 15; slot <= 120; slot += 5 {
		for buffer := 0; buffer <= 30; buffer += 10 {
			d := def("08:00", "21:00", "12:20", "13:40", slot, buffer)
			bs, be, _ := d.BreakWindow(monday)
			_, end, err := d.WorkingWindow(monday)
			require.NoError(t, err)

			prev := time.Time{}
			for _, s := range GenerateSlots(d, monday) {
				slotEnd := s.Add(time.Duration(slot) * time.Minute)
				assert.False(t, s.Before(be) && slotEnd.After(bs),
					"slot %s (%d+%d) intersects break", ClockOf(s), slot, buffer)
				assert.False(t, slotEnd.After(end), "slot %s runs past closing", ClockOf(s))
				assert.True(t, s.After(prev), "slots must ascend")
				prev = s
			}
		}
	}
}

func TestGenerateSlots_RespectsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	date := time.Date(2026, 10, 19, 0, 0, 0, 0, loc)
	slots := GenerateSlots(def("09:00", "11:00", "", "", 60, 0), date)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, loc), slots[0])
	assert.Equal(t, loc, slots[0].Location())
}

func TestIsSlotStart(t *testing.T) {
	d := def("09:00", "12:00", "", "", 60, 0)

	assert.True(t, IsSlotStart(d, monday.Add(10*time.Hour)))
	assert.False(t, IsSlotStart(d, monday.Add(10*time.Hour+30*time.Minute)))
}

func TestGenerateSlots_Golden(t *testing.T) {
	cases := []struct {
		name string
		def  *Definition
	}{
		{"standard_hour_with_lunch", def("09:00", "18:00", "13:00", "14:00", 60, 0)},
		{"buffer_15", def("10:00", "19:00", "14:00", "15:00", 45, 15)},
		{"ninety_minutes_straddling_break", def("09:00", "18:00", "13:00", "14:00", 90, 0)},
		{"no_break_30", def("09:00", "11:00", "", "", 30, 0)},
		{"break_right_after_first_slot", def("09:00", "12:00", "09:30", "10:00", 30, 10)},
		{"day_off", func() *Definition {
			d := def("09:00", "18:00", "", "", 60, 0)
			d.IsWorkingDay = false
			return d
		}()},
	}

	var buf bytes.Buffer
	for _, c := range cases {
		line := strings.Join(clocks(GenerateSlots(c.def, monday)), " ")
		if line == "" {
			line = "-"
		}
		fmt.Fprintf(&buf, "%s: %s\n", c.name, line)
	}

	g := goldie.New(t)
	g.Assert(t, "generate_slots", buf.Bytes())
}
