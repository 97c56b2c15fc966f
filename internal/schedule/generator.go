package schedule

import "time"

// GenerateSlots lists the candidate start times for date under def, in ascending order.
//
// The cursor starts at the opening time and advances by slot duration plus buffer.
// A cursor inside the break jumps to the break end. A slot that would straddle the
// break or run past closing time is skipped rather than truncated.
func GenerateSlots(def *Definition, date time.Time) []time.Time {
	if def == nil || !def.IsWorkingDay || def.SlotDurationMinutes <= 0 || def.BufferMinutes < 0 {
		return nil
	}

	start, end := def.StartTime.On(date), def.EndTime.On(date)
	breakStart, breakEnd, hasBreak := def.BreakWindow(date)

	slot := time.Duration(def.SlotDurationMinutes) * time.Minute
	step := slot + time.Duration(def.BufferMinutes)*time.Minute

	var slots []time.Time
	cursor := start
	for cursor.Before(end) {
		if hasBreak && !cursor.Before(breakStart) && cursor.Before(breakEnd) {
			cursor = breakEnd
			continue
		}

		slotEnd := cursor.Add(slot)
		if slotEnd.After(end) {
			break
		}
		if hasBreak && cursor.Before(breakEnd) && slotEnd.After(breakStart) {
			cursor = breakEnd
			continue
		}

		slots = append(slots, cursor)
		cursor = cursor.Add(step)
	}
	return slots
}

// IsSlotStart reports whether t is one of the generated starts for its date.
func IsSlotStart(def *Definition, t time.Time) bool {
	for _, s := range GenerateSlots(def, t) {
		if s.Equal(t) {
			return true
		}
	}
	return false
}
