package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/catalog"
	"github.com/ilya24037/www.spa.com-sub004/internal/notify"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/metrics"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

// dueBatchSize bounds one CompleteDue pass.
const dueBatchSize = 100

var tracer = otel.Tracer("booking")

// IntervalChecker validates a requested interval against the provider's schedule.
type IntervalChecker interface {
	CheckInterval(ctx context.Context, providerID string, start, end, now time.Time) error
}

type CreateRequest struct {
	ProviderID    string
	ServiceID     string
	Date          time.Time
	StartTime     schedule.Clock
	IsHomeService bool
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	ClientComment string
}

type Options struct {
	Location       *time.Location
	Policy         CancellationPolicy
	ReminderOffset time.Duration
	// PhoneRegion is the default region for numbers without a country code.
	PhoneRegion string
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, req CreateRequest, now time.Time) (*Booking, error)
	Get(ctx context.Context, actor auth.Actor, id string) (*Booking, error)
	List(ctx context.Context, actor auth.Actor, filter Filter) ([]*Booking, int, error)
	Confirm(ctx context.Context, actor auth.Actor, id string, now time.Time) (*Booking, error)
	Cancel(ctx context.Context, actor auth.Actor, id, reason string, now time.Time) (*Booking, error)
	Complete(ctx context.Context, actor auth.Actor, id string, now time.Time) (*Booking, error)
	// CompleteDue completes every confirmed booking that ended by now.
	CompleteDue(ctx context.Context, now time.Time) (int, error)
	Reschedule(ctx context.Context, actor auth.Actor, id string, date time.Time, start schedule.Clock, now time.Time) (*Booking, error)
	// SendReminder publishes the reminder of a confirmed booking at most once.
	SendReminder(ctx context.Context, id string, now time.Time) error
}

type service struct {
	repo       Repository
	catalog    catalog.Catalog
	checker    IntervalChecker
	cache      timeblock.CacheInvalidator
	dispatcher notify.Dispatcher
	reminders  notify.ReminderScheduler
	opts       Options
	log        *zap.Logger
}

func NewService(
	repo Repository,
	cat catalog.Catalog,
	checker IntervalChecker,
	cache timeblock.CacheInvalidator,
	dispatcher notify.Dispatcher,
	reminders notify.ReminderScheduler,
	opts Options,
	log *zap.Logger,
) Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &service{
		repo:       repo,
		catalog:    cat,
		checker:    checker,
		cache:      cache,
		dispatcher: dispatcher,
		reminders:  reminders,
		opts:       opts,
		log:        log,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req CreateRequest, now time.Time) (_ *Booking, err error) {
	ctx, span := tracer.Start(ctx, "booking.Create", trace.WithAttributes(
		attribute.String("provider_id", req.ProviderID),
		attribute.String("service_id", req.ServiceID),
	))
	defer func() { endSpan(span, err) }()

	if actor.UserID == "" || actor.UserID == req.ProviderID {
		return nil, ErrForbidden.WithMessage("providers cannot book their own services")
	}

	svc, err := s.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID != req.ProviderID {
		return nil, catalog.ErrNotFound
	}
	if !svc.IsActive {
		return nil, catalog.ErrInactive
	}

	phone, err := s.normalizePhone(req.ClientPhone)
	if err != nil {
		return nil, err
	}

	date := schedule.DateOnly(req.Date.In(s.opts.Location))
	start := req.StartTime.On(date)
	end := start.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	if err := s.checker.CheckInterval(ctx, req.ProviderID, start, end, now); err != nil {
		return nil, err
	}

	travelFee := decimal.Zero
	if req.IsHomeService {
		travelFee = svc.TravelFee
	}

	b := &Booking{
		BookingNumber:   NewBookingNumber(date),
		ClientID:        actor.UserID,
		ProviderID:      req.ProviderID,
		ServiceID:       svc.ID,
		BookingDate:     date,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: svc.DurationMinutes,
		IsHomeService:   req.IsHomeService,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientPhone:     phone,
		ClientEmail:     strings.TrimSpace(req.ClientEmail),
		ClientComment:   strings.TrimSpace(req.ClientComment),
		ServicePrice:    svc.Price,
		TravelFee:       travelFee,
		TotalPrice:      svc.Price.Add(travelFee),
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
	}

	block, err := timeblock.New(b.ProviderID, timeblock.KindService, start, end)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b, block); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			metrics.SlotConflicts.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.invalidate(ctx, b.ProviderID, b.StartTime)
	s.log.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("booking_number", b.BookingNumber),
		zap.String("provider_id", b.ProviderID),
		zap.Time("start_time", b.StartTime),
	)
	s.publish(ctx, notify.EventBookingCreated, b, now)
	return b, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, b) {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]*Booking, int, error) {
	// Non-admins only ever see their own side of the calendar.
	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleProvider:
		filter.ProviderID = actor.UserID
	default:
		filter.ClientID = actor.UserID
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Confirm(ctx context.Context, actor auth.Actor, id string, now time.Time) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsProvider(b.ProviderID) {
		return nil, ErrForbidden.WithMessage("only the provider can confirm a booking")
	}

	from := b.Status
	if err := transition(b, StatusConfirmed); err != nil {
		return nil, err
	}
	b.ConfirmedAt = &now

	if err := s.repo.SaveStatus(ctx, b, from); err != nil {
		return nil, err
	}

	s.scheduleReminder(ctx, b, now)
	s.publish(ctx, notify.EventBookingConfirmed, b, now)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, actor auth.Actor, id, reason string, now time.Time) (*Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, b) {
		return nil, ErrForbidden
	}

	from := b.Status
	if err := transition(b, StatusCancelled); err != nil {
		return nil, err
	}
	if err := s.opts.Policy.Check(b, actor, now); err != nil {
		return nil, err
	}

	fee := 0
	if !actor.IsAdmin() {
		fee = CancellationFee(b.StartTime.Sub(now), actor.UserID == b.ProviderID)
	}
	cancelledBy := actor.UserID
	b.CancelReason = &reason
	b.CancelledAt = &now
	b.CancellationFeePercent = &fee
	if cancelledBy != "" {
		b.CancelledBy = &cancelledBy
	}
	if b.PaymentStatus == PaymentPaid && fee == 0 {
		b.PaymentStatus = PaymentRefunded
	}

	if err := s.repo.Cancel(ctx, b, from); err != nil {
		return nil, err
	}

	if err := s.reminders.Cancel(ctx, b.ID); err != nil {
		s.log.Warn("reminder not cancelled", zap.String("booking_id", b.ID), zap.Error(err))
	}
	s.invalidate(ctx, b.ProviderID, b.StartTime)
	s.publish(ctx, notify.EventBookingCancelled, b, now)
	return b, nil
}

func (s *service) Complete(ctx context.Context, actor auth.Actor, id string, now time.Time) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsProvider(b.ProviderID) {
		return nil, ErrForbidden.WithMessage("only the provider can complete a booking")
	}
	return s.complete(ctx, b, now)
}

// complete keeps the service block as a historical record.
func (s *service) complete(ctx context.Context, b *Booking, now time.Time) (*Booking, error) {
	if b.Status == StatusConfirmed && now.Before(b.EndTime) {
		return nil, ErrInvalidState.WithMessage("booking has not ended yet")
	}

	from := b.Status
	if err := transition(b, StatusCompleted); err != nil {
		return nil, err
	}
	b.CompletedAt = &now

	if err := s.repo.SaveStatus(ctx, b, from); err != nil {
		return nil, err
	}
	s.publish(ctx, notify.EventBookingCompleted, b, now)
	return b, nil
}

func (s *service) CompleteDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.ListDue(ctx, now, dueBatchSize)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, b := range due {
		if _, err := s.complete(ctx, b, now); err != nil {
			s.log.Warn("booking not completed", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		done++
	}
	return done, nil
}

func (s *service) Reschedule(ctx context.Context, actor auth.Actor, id string, date time.Time, start schedule.Clock, now time.Time) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, b) {
		return nil, ErrForbidden
	}
	if !b.Status.IsActive() {
		return nil, ErrInvalidState
	}
	if err := s.opts.Policy.Check(b, actor, now); err != nil {
		return nil, err
	}

	day := schedule.DateOnly(date.In(s.opts.Location))
	newStart := start.On(day)
	newEnd := newStart.Add(time.Duration(b.DurationMinutes) * time.Minute)
	if err := s.checker.CheckInterval(ctx, b.ProviderID, newStart, newEnd, now); err != nil {
		return nil, err
	}

	oldStart := b.StartTime
	b.BookingDate = day
	b.StartTime, b.EndTime = newStart, newEnd
	b.ReminderSentAt = nil

	if err := s.repo.Reschedule(ctx, b, b.Status); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			metrics.SlotConflicts.Inc()
		}
		return nil, err
	}

	s.invalidate(ctx, b.ProviderID, oldStart)
	s.invalidate(ctx, b.ProviderID, b.StartTime)
	if b.Status == StatusConfirmed {
		if err := s.reminders.Cancel(ctx, b.ID); err != nil {
			s.log.Warn("reminder not cancelled", zap.String("booking_id", b.ID), zap.Error(err))
		}
		s.scheduleReminder(ctx, b, now)
	}
	s.publish(ctx, notify.EventBookingRescheduled, b, now)
	return b, nil
}

func (s *service) SendReminder(ctx context.Context, id string, now time.Time) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Cancelled, moved or already reminded bookings are skipped silently.
	if b.Status != StatusConfirmed || b.ReminderSentAt != nil || !now.Before(b.StartTime) {
		s.log.Debug("reminder skipped", zap.String("booking_id", id), zap.String("status", string(b.Status)))
		return nil
	}

	if err := s.repo.MarkReminderSent(ctx, id, now); err != nil {
		if errors.Is(err, ErrInvalidState) {
			return nil
		}
		return err
	}
	b.ReminderSentAt = &now
	s.publish(ctx, notify.EventBookingReminder, b, now)
	return nil
}

func (s *service) scheduleReminder(ctx context.Context, b *Booking, now time.Time) {
	fireAt := b.StartTime.Add(-s.opts.ReminderOffset)
	if fireAt.Before(now) {
		fireAt = now
	}
	if err := s.reminders.Schedule(ctx, b.ID, b.StartTime, fireAt); err != nil {
		s.log.Warn("reminder not scheduled", zap.String("booking_id", b.ID), zap.Error(err))
	}
}

func (s *service) publish(ctx context.Context, typ notify.EventType, b *Booking, now time.Time) {
	metrics.BookingTransitions.WithLabelValues(string(b.Status)).Inc()
	s.dispatcher.Dispatch(ctx, notify.Event{
		Type:          typ,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		ProviderID:    b.ProviderID,
		ClientID:      b.ClientID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        string(b.Status),
		Reason:        b.CancelReason,
		OccurredAt:    now,
	})
}

func (s *service) invalidate(ctx context.Context, providerID string, t time.Time) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateDate(ctx, providerID, schedule.DateOnly(t.In(s.opts.Location)))
}

func (s *service) normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, s.opts.PhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func transition(b *Booking, next Status) error {
	if !b.Status.CanTransitionTo(next) {
		return ErrInvalidState.WithMessage("booking is " + string(b.Status) + " and cannot become " + string(next))
	}
	b.Status = next
	return nil
}

// canView reports whether actor is a party of b or an admin.
func canView(actor auth.Actor, b *Booking) bool {
	return actor.IsAdmin() || actor.UserID == b.ClientID || actor.IsProvider(b.ProviderID)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
