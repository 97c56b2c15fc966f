package timeblock

import (
	"fmt"
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/interval"
)

// MaxShiftMinutes bounds a single Extend, Shorten or MoveBy step.
const MaxShiftMinutes = 24 * 60

// Duration returns the whole minutes in [start, end).
func Duration(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// Normalize truncates the bounds to whole minutes and recomputes DurationMinutes.
// It is called by the service layer before every write.
func (b *Block) Normalize() error {
	b.StartTime = b.StartTime.Truncate(time.Minute)
	b.EndTime = b.EndTime.Truncate(time.Minute)
	if !b.StartTime.Before(b.EndTime) {
		return ErrInvalidInterval.WithMessage("start time must be before end time")
	}
	b.DurationMinutes = Duration(b.StartTime, b.EndTime)
	return nil
}

// check verifies the block is well formed before a mutation is applied.
func (b *Block) check() error {
	if !b.StartTime.Before(b.EndTime) {
		return ErrInvalidInterval.WithMessage("block has a non-positive interval")
	}
	if b.DurationMinutes != Duration(b.StartTime, b.EndTime) {
		return ErrInvalidInterval.WithMessage("block duration does not match its interval")
	}
	return nil
}

// Interval returns the block as a half-open interval.
func (b *Block) Interval() interval.Interval {
	return interval.Interval{Start: b.StartTime, End: b.EndTime}
}

// shiftBy converts a step to a duration, rejecting steps outside ±MaxShiftMinutes.
func shiftBy(minutes int) (time.Duration, error) {
	if minutes > MaxShiftMinutes || minutes < -MaxShiftMinutes {
		return 0, ErrInvalidInterval.WithMessage(fmt.Sprintf("a step must be within %d minutes", MaxShiftMinutes))
	}
	return time.Duration(minutes) * time.Minute, nil
}

// IsOverlapping reports whether the block intersects [start, end).
func (b *Block) IsOverlapping(start, end time.Time) bool {
	return interval.Overlaps(b.StartTime, b.EndTime, start, end)
}

// Extend moves the end time later by minutes.
func (b *Block) Extend(minutes int) error {
	if err := b.check(); err != nil {
		return err
	}
	if minutes < 0 {
		return ErrInvalidInterval.WithMessage("extension must not be negative")
	}
	shift, err := shiftBy(minutes)
	if err != nil {
		return err
	}
	b.EndTime = b.EndTime.Add(shift)
	b.DurationMinutes = Duration(b.StartTime, b.EndTime)
	return nil
}

// Shorten moves the end time earlier by minutes. The block must keep a positive length.
func (b *Block) Shorten(minutes int) error {
	if err := b.check(); err != nil {
		return err
	}
	if minutes < 0 {
		return ErrInvalidInterval.WithMessage("reduction must not be negative")
	}
	if minutes >= b.DurationMinutes {
		return ErrInvalidInterval.WithMessage("cannot shorten a block by its whole duration or more")
	}
	shift, err := shiftBy(minutes)
	if err != nil {
		return err
	}
	b.EndTime = b.EndTime.Add(-shift)
	b.DurationMinutes = Duration(b.StartTime, b.EndTime)
	return nil
}

// MoveBy shifts both bounds by minutes. Overlaps are not checked here.
func (b *Block) MoveBy(minutes int) error {
	if err := b.check(); err != nil {
		return err
	}
	shift, err := shiftBy(minutes)
	if err != nil {
		return err
	}
	b.StartTime = b.StartTime.Add(shift)
	b.EndTime = b.EndTime.Add(shift)
	return nil
}

// Split cuts the block at at. The receiver keeps [start, at) and the returned
// block, which has no ID yet, covers [at, end) with the same kind and resource.
func (b *Block) Split(at time.Time) (*Block, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	at = at.Truncate(time.Minute)
	if !at.After(b.StartTime) || !at.Before(b.EndTime) {
		return nil, ErrInvalidInterval.WithMessage("split point must be strictly inside the block")
	}

	tail := *b
	tail.ID = ""
	tail.StartTime = at
	tail.DurationMinutes = Duration(at, tail.EndTime)
	if b.Notes != nil {
		notes := *b.Notes
		tail.Notes = &notes
	}
	if b.BookingID != nil {
		id := *b.BookingID
		tail.BookingID = &id
	}

	b.EndTime = at
	b.DurationMinutes = Duration(b.StartTime, at)
	return &tail, nil
}

// Block marks the interval as unavailable, keeping the record.
// An optional reason replaces the notes.
func (b *Block) Block(reason *string) error {
	if err := b.check(); err != nil {
		return err
	}
	if b.Kind != KindBlocked {
		b.PriorKind = b.Kind
		b.Kind = KindBlocked
	}
	if reason != nil {
		b.Notes = reason
	}
	return nil
}

// Unblock restores the kind the block had before Block.
func (b *Block) Unblock() error {
	if err := b.check(); err != nil {
		return err
	}
	if b.Kind != KindBlocked {
		return ErrNotBlocked
	}
	if b.PriorKind == "" {
		return ErrNotUnblockable
	}
	b.Kind = b.PriorKind
	b.PriorKind = ""
	return nil
}
