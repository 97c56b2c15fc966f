package availability

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/interval"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

// FreeSlots keeps the candidates whose [start, start+duration) fits before
// closing and intersects no busy interval. Order is preserved.
func FreeSlots(candidates []time.Time, duration time.Duration, closing time.Time, busy []interval.Interval) []time.Time {
	free := make([]time.Time, 0, len(candidates))
	for _, start := range candidates {
		end := start.Add(duration)
		if end.After(closing) {
			continue
		}
		if interval.OverlapsAny(start, end, busy) {
			continue
		}
		free = append(free, start)
	}
	return free
}

// NotBefore drops the leading slots starting before t.
func NotBefore(slots []time.Time, t time.Time) []time.Time {
	for i, s := range slots {
		if !s.Before(t) {
			return slots[i:]
		}
	}
	return []time.Time{}
}

// busyIntervals merges persisted blocks with the schedule break.
func busyIntervals(def *schedule.Definition, date time.Time, blocks []*timeblock.Block) []interval.Interval {
	busy := make([]interval.Interval, 0, len(blocks)+1)
	for _, b := range blocks {
		busy = append(busy, b.Interval())
	}
	if bs, be, ok := def.BreakWindow(date); ok {
		busy = append(busy, interval.Interval{Start: bs, End: be})
	}
	interval.Sort(busy)
	return busy
}
