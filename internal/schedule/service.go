package schedule

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
)

// CacheInvalidator drops cached availability derived from a provider's schedule.
type CacheInvalidator interface {
	InvalidateProvider(ctx context.Context, providerID string)
}

type Service interface {
	GetWeek(ctx context.Context, providerID string) (Week, error)
	SetDay(ctx context.Context, actor auth.Actor, def *Definition) (*Definition, error)
	// SetDays applies tmpl to every weekday in days in one transaction.
	SetDays(ctx context.Context, actor auth.Actor, providerID string, days WeekdaySet, tmpl Definition) (Week, error)
	DeleteDay(ctx context.Context, actor auth.Actor, providerID string, day Weekday) error

	ListOverrides(ctx context.Context, providerID string, from, to time.Time) ([]*Override, error)
	SetOverride(ctx context.Context, actor auth.Actor, o *Override) (*Override, error)
	DeleteOverride(ctx context.Context, actor auth.Actor, providerID string, date time.Time) error

	// ForDate resolves the effective definition for date, applying a single-day
	// override when one exists. It returns nil when the provider has nothing for that day.
	ForDate(ctx context.Context, providerID string, date time.Time) (*Definition, error)
}

type service struct {
	repo  Repository
	cache CacheInvalidator
	log   *zap.Logger
}

func NewService(repo Repository, cache CacheInvalidator, log *zap.Logger) Service {
	return &service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *service) GetWeek(ctx context.Context, providerID string) (Week, error) {
	return s.repo.ListDays(ctx, providerID)
}

func (s *service) SetDay(ctx context.Context, actor auth.Actor, def *Definition) (*Definition, error) {
	if !actor.IsProvider(def.ProviderID) {
		return nil, ErrForbidden
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertDays(ctx, []*Definition{def}); err != nil {
		return nil, err
	}
	s.invalidate(ctx, def.ProviderID)
	return def, nil
}

func (s *service) SetDays(ctx context.Context, actor auth.Actor, providerID string, days WeekdaySet, tmpl Definition) (Week, error) {
	if !actor.IsProvider(providerID) {
		return nil, ErrForbidden
	}
	if days.Empty() {
		return nil, ErrInvalidSchedule.WithMessage("at least one weekday is required")
	}

	defs := make(Week, 0, 7)
	for _, day := range days.Days() {
		d := tmpl
		d.ID = ""
		d.ProviderID = providerID
		d.DayOfWeek = day
		if err := d.Validate(); err != nil {
			return nil, err
		}
		defs = append(defs, &d)
	}

	if err := s.repo.UpsertDays(ctx, defs); err != nil {
		return nil, err
	}
	s.invalidate(ctx, providerID)
	return defs, nil
}

func (s *service) DeleteDay(ctx context.Context, actor auth.Actor, providerID string, day Weekday) error {
	if !actor.IsProvider(providerID) {
		return ErrForbidden
	}
	if err := s.repo.DeleteDay(ctx, providerID, day); err != nil {
		return err
	}
	s.invalidate(ctx, providerID)
	return nil
}

func (s *service) ListOverrides(ctx context.Context, providerID string, from, to time.Time) ([]*Override, error) {
	if to.Before(from) {
		return nil, ErrInvalidSchedule.WithMessage("from must not be after to")
	}
	return s.repo.ListOverrides(ctx, providerID, DateOnly(from), DateOnly(to))
}

func (s *service) SetOverride(ctx context.Context, actor auth.Actor, o *Override) (*Override, error) {
	if !actor.IsProvider(o.ProviderID) {
		return nil, ErrForbidden
	}
	o.Date = DateOnly(o.Date)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertOverride(ctx, o); err != nil {
		return nil, err
	}
	s.invalidate(ctx, o.ProviderID)
	return o, nil
}

func (s *service) DeleteOverride(ctx context.Context, actor auth.Actor, providerID string, date time.Time) error {
	if !actor.IsProvider(providerID) {
		return ErrForbidden
	}
	if err := s.repo.DeleteOverride(ctx, providerID, DateOnly(date)); err != nil {
		return err
	}
	s.invalidate(ctx, providerID)
	return nil
}

func (s *service) ForDate(ctx context.Context, providerID string, date time.Time) (*Definition, error) {
	date = DateOnly(date)

	base, err := s.repo.GetDay(ctx, providerID, WeekdayOf(date))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	ov, err := s.repo.GetOverride(ctx, providerID, date)
	switch {
	case errors.Is(err, ErrOverrideNotFound):
		return base, nil
	case err != nil:
		return nil, err
	}
	return ov.Apply(base), nil
}

func (s *service) invalidate(ctx context.Context, providerID string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateProvider(ctx, providerID)
	s.log.Debug("schedule changed, availability cache invalidated", zap.String("provider_id", providerID))
}
