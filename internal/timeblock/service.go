package timeblock

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/metrics"
)

// CacheInvalidator drops cached availability for one provider day.
type CacheInvalidator interface {
	InvalidateDate(ctx context.Context, providerID string, date time.Time)
}

type CreateRequest struct {
	ProviderID string
	Kind       Kind
	Resource   Resource
	StartTime  time.Time
	EndTime    time.Time
	Notes      *string
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Block, error)
	Get(ctx context.Context, actor auth.Actor, id string) (*Block, error)
	ListForDay(ctx context.Context, actor auth.Actor, providerID string, date time.Time) ([]*Block, error)
	Extend(ctx context.Context, actor auth.Actor, id string, minutes int) (*Block, error)
	Shorten(ctx context.Context, actor auth.Actor, id string, minutes int) (*Block, error)
	Move(ctx context.Context, actor auth.Actor, id string, minutes int) (*Block, error)
	// Split returns the shortened original followed by the new tail block.
	Split(ctx context.Context, actor auth.Actor, id string, at time.Time) ([]*Block, error)
	Block(ctx context.Context, actor auth.Actor, id string, reason *string) (*Block, error)
	Unblock(ctx context.Context, actor auth.Actor, id string) (*Block, error)
	Delete(ctx context.Context, actor auth.Actor, id string) error
}

type service struct {
	repo  Repository
	cache CacheInvalidator
	loc   *time.Location
	log   *zap.Logger
}

// NewService creates the time block service. loc is the zone calendar dates are computed in.
func NewService(repo Repository, cache CacheInvalidator, loc *time.Location, log *zap.Logger) Service {
	return &service{
		repo:  repo,
		cache: cache,
		loc:   loc,
		log:   log,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Block, error) {
	if !actor.IsProvider(req.ProviderID) {
		return nil, ErrForbidden
	}
	// Service blocks only come from bookings.
	if req.Kind == KindService {
		return nil, ErrInvalidKind.WithMessage("service blocks are created by bookings")
	}

	b, err := New(req.ProviderID, req.Kind, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	b.Resource = req.Resource
	b.Notes = req.Notes

	if err := s.repo.Create(ctx, b); err != nil {
		s.countConflict(err)
		return nil, err
	}
	s.invalidate(ctx, b.ProviderID, b.StartTime, b.EndTime)
	return b, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id string) (*Block, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsProvider(b.ProviderID) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *service) ListForDay(ctx context.Context, actor auth.Actor, providerID string, date time.Time) ([]*Block, error) {
	if !actor.IsProvider(providerID) {
		return nil, ErrForbidden
	}
	y, m, d := date.In(s.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return s.repo.List(ctx, Filter{
		ProviderID: providerID,
		From:       from,
		To:         from.AddDate(0, 0, 1),
	})
}

func (s *service) Extend(ctx context.Context, actor auth.Actor, id string, minutes int) (*Block, error) {
	return s.mutate(ctx, actor, id, func(b *Block) error { return b.Extend(minutes) })
}

func (s *service) Shorten(ctx context.Context, actor auth.Actor, id string, minutes int) (*Block, error) {
	return s.mutate(ctx, actor, id, func(b *Block) error { return b.Shorten(minutes) })
}

func (s *service) Move(ctx context.Context, actor auth.Actor, id string, minutes int) (*Block, error) {
	return s.mutate(ctx, actor, id, func(b *Block) error { return b.MoveBy(minutes) })
}

func (s *service) Block(ctx context.Context, actor auth.Actor, id string, reason *string) (*Block, error) {
	return s.mutate(ctx, actor, id, func(b *Block) error { return b.Block(reason) })
}

func (s *service) Unblock(ctx context.Context, actor auth.Actor, id string) (*Block, error) {
	return s.mutate(ctx, actor, id, func(b *Block) error { return b.Unblock() })
}

func (s *service) Split(ctx context.Context, actor auth.Actor, id string, at time.Time) ([]*Block, error) {
	head, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	tail, err := head.Split(at)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Split(ctx, head, tail); err != nil {
		s.countConflict(err)
		return nil, err
	}
	s.invalidate(ctx, head.ProviderID, head.StartTime, tail.EndTime)
	return []*Block{head, tail}, nil
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	b, err := s.editable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, b.ProviderID, b.StartTime, b.EndTime)
	return nil
}

// editable loads a block the actor may change through this service.
func (s *service) editable(ctx context.Context, actor auth.Actor, id string) (*Block, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if b.Kind == KindService || b.BookingID != nil {
		return nil, ErrLinkedToBooking
	}
	return b, nil
}

// mutate applies fn to a loaded block, recomputes derived fields and persists it.
func (s *service) mutate(ctx context.Context, actor auth.Actor, id string, fn func(b *Block) error) (*Block, error) {
	b, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	oldStart, oldEnd := b.StartTime, b.EndTime

	if err := fn(b); err != nil {
		return nil, err
	}
	if err := b.Normalize(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		s.countConflict(err)
		return nil, err
	}

	s.invalidate(ctx, b.ProviderID, oldStart, oldEnd)
	s.invalidate(ctx, b.ProviderID, b.StartTime, b.EndTime)
	return b, nil
}

// invalidate drops cached availability for every calendar day the interval touches.
func (s *service) invalidate(ctx context.Context, providerID string, start, end time.Time) {
	if s.cache == nil {
		return
	}
	y, m, d := start.In(s.loc).Date()
	for day := time.Date(y, m, d, 0, 0, 0, 0, s.loc); day.Before(end); day = day.AddDate(0, 0, 1) {
		s.cache.InvalidateDate(ctx, providerID, day)
	}
}

func (s *service) countConflict(err error) {
	if errors.Is(err, ErrSlotConflict) {
		metrics.SlotConflicts.Inc()
		s.log.Info("time block write rejected by calendar conflict")
	}
}
