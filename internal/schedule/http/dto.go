package http

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
)

// DayBody is the editable part of a weekday definition.
type DayBody struct {
	IsWorkingDay        *bool   `json:"is_working_day"`
	StartTime           string  `json:"start_time" binding:"required"`
	EndTime             string  `json:"end_time" binding:"required"`
	BreakStart          *string `json:"break_start"`
	BreakEnd            *string `json:"break_end"`
	SlotDurationMinutes int     `json:"slot_duration_minutes" binding:"required,min=1,max=720"`
	BufferMinutes       int     `json:"buffer_minutes" binding:"min=0,max=240"`
	IsFlexible          bool    `json:"is_flexible"`
}

// ToDefinition parses the wall-clock fields.
func (b *DayBody) ToDefinition() (schedule.Definition, error) {
	d := schedule.Definition{
		IsWorkingDay:        true,
		SlotDurationMinutes: b.SlotDurationMinutes,
		BufferMinutes:       b.BufferMinutes,
		IsFlexible:          b.IsFlexible,
	}
	if b.IsWorkingDay != nil {
		d.IsWorkingDay = *b.IsWorkingDay
	}

	var err error
	if d.StartTime, err = parseClock(b.StartTime); err != nil {
		return d, err
	}
	if d.EndTime, err = parseClock(b.EndTime); err != nil {
		return d, err
	}
	if d.BreakStart, err = parseOptionalClock(b.BreakStart); err != nil {
		return d, err
	}
	if d.BreakEnd, err = parseOptionalClock(b.BreakEnd); err != nil {
		return d, err
	}
	return d, nil
}

// SetWeekBody applies one template to several weekdays.
type SetWeekBody struct {
	Days schedule.WeekdaySet `json:"days" binding:"required"`
	DayBody
}

type DayURI struct {
	ProviderID string `uri:"provider_id" binding:"required,uuid"`
	Day        int    `uri:"day" binding:"required,min=1,max=7"`
}

type OverrideURI struct {
	ProviderID string `uri:"provider_id" binding:"required,uuid"`
	Date       string `uri:"date" binding:"required,datetime=2006-01-02"`
}

type OverrideBody struct {
	IsWorkingDay bool    `json:"is_working_day"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	BreakStart   *string `json:"break_start"`
	BreakEnd     *string `json:"break_end"`
	Reason       *string `json:"reason" binding:"omitempty,max=255"`
}

func (b *OverrideBody) ToOverride(providerID string, date time.Time) (*schedule.Override, error) {
	o := &schedule.Override{
		ProviderID:   providerID,
		Date:         date,
		IsWorkingDay: b.IsWorkingDay,
		Reason:       b.Reason,
	}
	var err error
	for _, f := range []struct {
		src *string
		dst **schedule.Clock
	}{{b.StartTime, &o.StartTime}, {b.EndTime, &o.EndTime}, {b.BreakStart, &o.BreakStart}, {b.BreakEnd, &o.BreakEnd}} {
		if *f.dst, err = parseOptionalClock(f.src); err != nil {
			return nil, err
		}
	}
	return o, nil
}

type ListOverridesQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

type DefinitionResponse struct {
	ID                  string          `json:"id"`
	DayOfWeek           int             `json:"day_of_week"`
	IsWorkingDay        bool            `json:"is_working_day"`
	StartTime           schedule.Clock  `json:"start_time"`
	EndTime             schedule.Clock  `json:"end_time"`
	BreakStart          *schedule.Clock `json:"break_start"`
	BreakEnd            *schedule.Clock `json:"break_end"`
	SlotDurationMinutes int             `json:"slot_duration_minutes"`
	BufferMinutes       int             `json:"buffer_minutes"`
	IsFlexible          bool            `json:"is_flexible"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func NewDefinitionResponse(d *schedule.Definition) DefinitionResponse {
	return DefinitionResponse{
		ID:                  d.ID,
		DayOfWeek:           int(d.DayOfWeek),
		IsWorkingDay:        d.IsWorkingDay,
		StartTime:           d.StartTime,
		EndTime:             d.EndTime,
		BreakStart:          d.BreakStart,
		BreakEnd:            d.BreakEnd,
		SlotDurationMinutes: d.SlotDurationMinutes,
		BufferMinutes:       d.BufferMinutes,
		IsFlexible:          d.IsFlexible,
		UpdatedAt:           d.UpdatedAt,
	}
}

type WeekResponse struct {
	ProviderID  string               `json:"provider_id"`
	WorkingDays schedule.WeekdaySet  `json:"working_days"`
	Days        []DefinitionResponse `json:"days"`
}

func NewWeekResponse(providerID string, w schedule.Week) WeekResponse {
	days := make([]DefinitionResponse, len(w))
	for i, d := range w {
		days[i] = NewDefinitionResponse(d)
	}
	return WeekResponse{
		ProviderID:  providerID,
		WorkingDays: w.WorkingDays(),
		Days:        days,
	}
}

type OverrideResponse struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	IsWorkingDay bool            `json:"is_working_day"`
	StartTime    *schedule.Clock `json:"start_time"`
	EndTime      *schedule.Clock `json:"end_time"`
	BreakStart   *schedule.Clock `json:"break_start"`
	BreakEnd     *schedule.Clock `json:"break_end"`
	Reason       *string         `json:"reason"`
}

func NewOverrideResponse(o *schedule.Override) OverrideResponse {
	return OverrideResponse{
		ID:           o.ID,
		Date:         o.Date.Format(time.DateOnly),
		IsWorkingDay: o.IsWorkingDay,
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		BreakStart:   o.BreakStart,
		BreakEnd:     o.BreakEnd,
		Reason:       o.Reason,
	}
}

func parseClock(s string) (schedule.Clock, error) {
	c, err := schedule.ParseClock(s)
	if err != nil {
		return 0, schedule.ErrInvalidSchedule.WithMessage(err.Error())
	}
	return c, nil
}

func parseOptionalClock(s *string) (*schedule.Clock, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	c, err := parseClock(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
