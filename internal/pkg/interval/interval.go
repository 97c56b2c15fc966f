// Package interval implements half-open [start, end) time interval helpers.
package interval

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Overlaps reports whether i intersects [start, end).
func (i Interval) Overlaps(start, end time.Time) bool {
	return Overlaps(i.Start, i.End, start, end)
}

// Valid reports whether the interval has a positive length.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Minutes returns the whole minutes between Start and End.
func (i Interval) Minutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

// OverlapsAny reports whether [start, end) intersects any interval in busy.
func OverlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// Sort orders intervals by start time, then end time.
func Sort(list []Interval) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Start.Equal(list[j].Start) {
			return list[i].End.Before(list[j].End)
		}
		return list[i].Start.Before(list[j].Start)
	})
}
