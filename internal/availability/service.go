package availability

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/catalog"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/metrics"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

type Service interface {
	// GetAvailableSlots lists the free starts for a service on date, ascending.
	// Starts before now plus the lead time are dropped.
	GetAvailableSlots(ctx context.Context, providerID, serviceID string, date, now time.Time) ([]time.Time, error)
	// CheckInterval verifies [start, end) fits the provider's hours for a booking.
	// Overlaps with existing blocks are checked by the writer, inside its transaction.
	CheckInterval(ctx context.Context, providerID string, start, end, now time.Time) error
	// NextAvailable returns the first free start on or after from within SearchDays.
	NextAvailable(ctx context.Context, providerID, serviceID string, from, now time.Time) (time.Time, error)
	Stats(ctx context.Context, providerID, serviceID string, date time.Time) (*Stats, error)
}

type Options struct {
	// Location is where schedule wall-clock times and dates are interpreted.
	Location *time.Location
	// LeadTime is the minimum distance between now and a bookable start.
	LeadTime time.Duration
}

type service struct {
	schedules ScheduleSource
	catalog   catalog.Catalog
	blocks    BlockReader
	cache     Cache
	opts      Options
	log       *zap.Logger
}

func NewService(schedules ScheduleSource, cat catalog.Catalog, blocks BlockReader, cache Cache, opts Options, log *zap.Logger) Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if cache == nil {
		cache = NewNopCache()
	}
	return &service{
		schedules: schedules,
		catalog:   cat,
		blocks:    blocks,
		cache:     cache,
		opts:      opts,
		log:       log,
	}
}

func (s *service) GetAvailableSlots(ctx context.Context, providerID, serviceID string, date, now time.Time) ([]time.Time, error) {
	svc, err := s.bookableService(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}
	slots, err := s.freeSlots(ctx, providerID, s.day(date), svc.DurationMinutes)
	if err != nil {
		return nil, err
	}
	return NotBefore(slots, now.Add(s.opts.LeadTime)), nil
}

func (s *service) CheckInterval(ctx context.Context, providerID string, start, end, now time.Time) error {
	if !start.Before(end) {
		return timeblock.ErrInvalidInterval.WithMessage("start time must be before end time")
	}
	if start.Before(now.Add(s.opts.LeadTime)) {
		return ErrNotBookable.WithMessage("start time is in the past or too close to now")
	}

	date := s.day(start)
	def, err := s.schedules.ForDate(ctx, providerID, date)
	if err != nil {
		return err
	}
	open, closing, err := def.WorkingWindow(date)
	if err != nil {
		return ErrNotBookable.WithMessage("provider does not work on this day")
	}
	if start.Before(open) || end.After(closing) {
		return ErrNotBookable.WithMessage("requested time is outside working hours")
	}
	if bs, be, ok := def.BreakWindow(date); ok && start.Before(be) && end.After(bs) {
		return ErrNotBookable.WithMessage("requested time overlaps the break")
	}
	if !def.IsFlexible && !schedule.IsSlotStart(def, start) {
		return ErrNotBookable.WithMessage("start time is not one of the provider's slots")
	}
	return nil
}

func (s *service) NextAvailable(ctx context.Context, providerID, serviceID string, from, now time.Time) (time.Time, error) {
	svc, err := s.bookableService(ctx, providerID, serviceID)
	if err != nil {
		return time.Time{}, err
	}

	notBefore := now.Add(s.opts.LeadTime)
	if from.After(notBefore) {
		notBefore = from
	}

	day := s.day(notBefore)
	for i := 0; i < SearchDays; i++ {
		slots, err := s.freeSlots(ctx, providerID, day, svc.DurationMinutes)
		if err != nil {
			return time.Time{}, err
		}
		if slots = NotBefore(slots, notBefore); len(slots) > 0 {
			return slots[0], nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrNoAvailability
}

func (s *service) Stats(ctx context.Context, providerID, serviceID string, date time.Time) (*Stats, error) {
	svc, err := s.bookableService(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}
	date = s.day(date)

	def, err := s.schedules.ForDate(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	total := len(FreeSlots(schedule.GenerateSlots(def, date), minutes(svc.DurationMinutes), closingTime(def, date), nil))

	free, err := s.freeSlots(ctx, providerID, date, svc.DurationMinutes)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Date:     date,
		Total:    total,
		Free:     len(free),
		Occupied: total - len(free),
	}
	if total > 0 {
		st.OccupancyRate = math.Round(float64(st.Occupied)/float64(total)*1000) / 10
	}
	return st, nil
}

// freeSlots returns the free starts of one day, consulting the cache first.
func (s *service) freeSlots(ctx context.Context, providerID string, date time.Time, durationMinutes int) ([]time.Time, error) {
	slots, version, ok := s.cache.Get(ctx, providerID, date, durationMinutes)
	if ok {
		metrics.AvailabilityCache.WithLabelValues("hit").Inc()
		return slots, nil
	}
	metrics.AvailabilityCache.WithLabelValues("miss").Inc()

	def, err := s.schedules.ForDate(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	candidates := schedule.GenerateSlots(def, date)
	if len(candidates) == 0 {
		return []time.Time{}, nil
	}

	blocks, err := s.blocks.List(ctx, timeblock.Filter{
		ProviderID: providerID,
		From:       date,
		To:         date.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}

	slots = FreeSlots(candidates, minutes(durationMinutes), closingTime(def, date), busyIntervals(def, date, blocks))
	s.cache.Set(ctx, providerID, date, durationMinutes, version, slots)
	return slots, nil
}

func (s *service) bookableService(ctx context.Context, providerID, serviceID string) (*catalog.Service, error) {
	svc, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID != providerID {
		return nil, catalog.ErrNotFound
	}
	if !svc.IsActive || svc.DurationMinutes <= 0 {
		return nil, catalog.ErrInactive
	}
	return svc, nil
}

// day returns midnight of t's calendar date in the configured location.
func (s *service) day(t time.Time) time.Time {
	return schedule.DateOnly(t.In(s.opts.Location))
}

func closingTime(def *schedule.Definition, date time.Time) time.Time {
	_, closing, err := def.WorkingWindow(date)
	if err != nil {
		return date
	}
	return closing
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
