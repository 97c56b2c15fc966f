package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday is an ISO-8601 day of week: Monday = 1 ... Sunday = 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayOf returns the ISO weekday of t in t's location.
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ParseWeekday validates an ISO weekday number.
func ParseWeekday(n int) (Weekday, error) {
	d := Weekday(n)
	if !d.Valid() {
		return 0, ErrInvalidSchedule.WithMessage(fmt.Sprintf("day of week must be between 1 and 7, got %d", n))
	}
	return d, nil
}

// WeekdaySet is a set of ISO weekdays stored as a bitset (bit d for weekday d).
type WeekdaySet uint8

const allWeekdays WeekdaySet = 0b1111_1110

// NewWeekdaySet builds a set from ISO weekday numbers, rejecting anything outside 1..7.
func NewWeekdaySet(days ...int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, n := range days {
		d, err := ParseWeekday(n)
		if err != nil {
			return 0, err
		}
		s = s.Add(d)
	}
	return s, nil
}

func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<uint(d)
}

func (s WeekdaySet) Remove(d Weekday) WeekdaySet {
	return s &^ (1 << uint(d))
}

func (s WeekdaySet) Has(d Weekday) bool {
	return d.Valid() && s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Empty() bool { return s&allWeekdays == 0 }

// Days lists members in ascending order.
func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, d.String())
	}
	return strings.Join(names, ",")
}

// MarshalJSON encodes the set as an ascending array of ISO weekday numbers.
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	nums := make([]int, 0, 7)
	for _, d := range s.Days() {
		nums = append(nums, int(d))
	}
	return json.Marshal(nums)
}

func (s *WeekdaySet) UnmarshalJSON(b []byte) error {
	var nums []int
	if err := json.Unmarshal(b, &nums); err != nil {
		return err
	}
	v, err := NewWeekdaySet(nums...)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
