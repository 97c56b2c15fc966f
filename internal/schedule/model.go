package schedule

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "schedule_not_found", "schedule not found")
	ErrOverrideNotFound = apperror.New(http.StatusNotFound, "override_not_found", "schedule override not found")
	ErrInvalidSchedule  = apperror.New(http.StatusUnprocessableEntity, "validation_error", "invalid schedule")
	ErrForbidden        = apperror.New(http.StatusForbidden, "forbidden", "only the provider can edit this schedule")

	// ErrNotWorkingDay is a lookup result, never an HTTP error.
	ErrNotWorkingDay = errors.New("not a working day")
)

const (
	DefaultSlotDurationMinutes = 60
	maxSlotDurationMinutes     = 12 * 60
)

// Definition is a provider's template for one weekday.
type Definition struct {
	ID                  string
	ProviderID          string
	DayOfWeek           Weekday
	StartTime           Clock
	EndTime             Clock
	IsWorkingDay        bool
	BreakStart          *Clock
	BreakEnd            *Clock
	SlotDurationMinutes int
	BufferMinutes       int
	// IsFlexible allows bookings to start at any minute of the working window
	// instead of only at generated slot starts.
	IsFlexible bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasBreak reports whether a break window is configured.
func (d *Definition) HasBreak() bool {
	return d.BreakStart != nil && d.BreakEnd != nil
}

// Validate checks the definition invariants.
func (d *Definition) Validate() error {
	if !d.DayOfWeek.Valid() {
		return ErrInvalidSchedule.WithMessage("day of week must be between 1 and 7")
	}
	if !d.StartTime.Valid() || !d.EndTime.Valid() {
		return ErrInvalidSchedule.WithMessage("working hours must be within one day")
	}
	if d.StartTime >= d.EndTime {
		return ErrInvalidSchedule.WithMessage("start time must be before end time")
	}
	if (d.BreakStart == nil) != (d.BreakEnd == nil) {
		return ErrInvalidSchedule.WithMessage("break start and break end must be set together")
	}
	if d.HasBreak() {
		if *d.BreakStart >= *d.BreakEnd {
			return ErrInvalidSchedule.WithMessage("break start must be before break end")
		}
		if *d.BreakStart < d.StartTime || *d.BreakEnd > d.EndTime {
			return ErrInvalidSchedule.WithMessage("break must lie within working hours")
		}
	}
	if d.SlotDurationMinutes <= 0 || d.SlotDurationMinutes > maxSlotDurationMinutes {
		return ErrInvalidSchedule.WithMessage(fmt.Sprintf("slot duration must be between 1 and %d minutes", maxSlotDurationMinutes))
	}
	if d.BufferMinutes < 0 {
		return ErrInvalidSchedule.WithMessage("buffer must not be negative")
	}
	return nil
}

// WorkingWindow returns the working hours on date, which must fall on the definition's weekday.
func (d *Definition) WorkingWindow(date time.Time) (time.Time, time.Time, error) {
	if d == nil || !d.IsWorkingDay || WeekdayOf(date) != d.DayOfWeek {
		return time.Time{}, time.Time{}, ErrNotWorkingDay
	}
	return d.StartTime.On(date), d.EndTime.On(date), nil
}

// BreakWindow returns the break on date, if any.
func (d *Definition) BreakWindow(date time.Time) (time.Time, time.Time, bool) {
	if !d.HasBreak() {
		return time.Time{}, time.Time{}, false
	}
	return d.BreakStart.On(date), d.BreakEnd.On(date), true
}

// Week is the set of weekday definitions of one provider.
type Week []*Definition

// ForDay returns the definition for day or nil.
func (w Week) ForDay(day Weekday) *Definition {
	for _, d := range w {
		if d.DayOfWeek == day {
			return d
		}
	}
	return nil
}

// WorkingWindow looks up date's weekday and returns its working hours.
func (w Week) WorkingWindow(date time.Time) (time.Time, time.Time, error) {
	return w.ForDay(WeekdayOf(date)).WorkingWindow(date)
}

// WorkingDays returns the weekdays marked as working.
func (w Week) WorkingDays() WeekdaySet {
	var s WeekdaySet
	for _, d := range w {
		if d.IsWorkingDay {
			s = s.Add(d.DayOfWeek)
		}
	}
	return s
}

// Override replaces the weekly definition for a single calendar date.
type Override struct {
	ID           string
	ProviderID   string
	Date         time.Time
	IsWorkingDay bool
	StartTime    *Clock
	EndTime      *Clock
	BreakStart   *Clock
	BreakEnd     *Clock
	Reason       *string
	CreatedAt    time.Time
}

// Validate checks an override. Working overrides need their own hours.
func (o *Override) Validate() error {
	if o.Date.IsZero() {
		return ErrInvalidSchedule.WithMessage("override date is required")
	}
	if !o.IsWorkingDay {
		return nil
	}
	if o.StartTime == nil || o.EndTime == nil {
		return ErrInvalidSchedule.WithMessage("working override requires start and end time")
	}
	applied := o.Apply(nil)
	return applied.Validate()
}

// Apply derives the effective definition for the override's date.
// Slot granularity, buffer and flexibility come from base when present.
func (o *Override) Apply(base *Definition) *Definition {
	eff := &Definition{
		ProviderID:          o.ProviderID,
		DayOfWeek:           WeekdayOf(o.Date),
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		IsWorkingDay:        o.IsWorkingDay,
	}
	if base != nil {
		eff.ID = base.ID
		eff.StartTime, eff.EndTime = base.StartTime, base.EndTime
		eff.SlotDurationMinutes = base.SlotDurationMinutes
		eff.BufferMinutes = base.BufferMinutes
		eff.IsFlexible = base.IsFlexible
	}
	if !o.IsWorkingDay {
		return eff
	}
	if o.StartTime != nil {
		eff.StartTime = *o.StartTime
	}
	if o.EndTime != nil {
		eff.EndTime = *o.EndTime
	}
	// The override's break replaces the weekly one; the weekly break may not fit the new hours.
	eff.BreakStart, eff.BreakEnd = o.BreakStart, o.BreakEnd
	return eff
}

// DateOnly truncates t to midnight of its calendar day in its location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
