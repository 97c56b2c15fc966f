package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/availability"
	"github.com/ilya24037/www.spa.com-sub004/internal/catalog"
	"github.com/ilya24037/www.spa.com-sub004/internal/notify"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

// memRepo keeps bookings and their service blocks under one mutex, which
// plays the role of the provider lock plus exclusion constraint.
type memRepo struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	blocks   map[string]*timeblock.Block // by booking id
	manual   []*timeblock.Block
}

func newMemRepo() *memRepo {
	return &memRepo{
		bookings: map[string]*Booking{},
		blocks:   map[string]*timeblock.Block{},
	}
}

func (r *memRepo) allBlocks() []*timeblock.Block {
	out := append([]*timeblock.Block{}, r.manual...)
	for _, b := range r.blocks {
		out = append(out, b)
	}
	return out
}

func (r *memRepo) taken(providerID string, start, end time.Time, excludeID string) bool {
	for _, b := range r.allBlocks() {
		if b.ProviderID == providerID && b.ID != excludeID && b.IsOverlapping(start, end) {
			return true
		}
	}
	return false
}

func (r *memRepo) Create(_ context.Context, b *Booking, block *timeblock.Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(b.ProviderID, b.StartTime, b.EndTime, "") {
		return ErrSlotConflict
	}
	b.ID = uuid.NewString()
	block.ID = uuid.NewString()
	block.BookingID = &b.ID
	cp := *b
	r.bookings[b.ID] = &cp
	blk := *block
	r.blocks[b.ID] = &blk
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, f Filter) ([]*Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if (f.ClientID == "" || b.ClientID == f.ClientID) && (f.ProviderID == "" || b.ProviderID == f.ProviderID) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, len(out), nil
}

func (r *memRepo) save(b *Booking, from Status) error {
	stored, ok := r.bookings[b.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != from {
		return ErrInvalidState
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) SaveStatus(_ context.Context, b *Booking, from Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(b, from)
}

func (r *memRepo) Cancel(_ context.Context, b *Booking, from Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.save(b, from); err != nil {
		return err
	}
	delete(r.blocks, b.ID)
	return nil
}

func (r *memRepo) Reschedule(_ context.Context, b *Booking, from Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	block := r.blocks[b.ID]
	if r.taken(b.ProviderID, b.StartTime, b.EndTime, block.ID) {
		return ErrSlotConflict
	}
	if err := r.save(b, from); err != nil {
		return err
	}
	block.StartTime, block.EndTime = b.StartTime, b.EndTime
	return block.Normalize()
}

func (r *memRepo) ListDue(_ context.Context, t time.Time, _ int) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if b.Status == StatusConfirmed && !b.EndTime.After(t) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) MarkReminderSent(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != StatusConfirmed || b.ReminderSentAt != nil {
		return ErrInvalidState
	}
	b.ReminderSentAt = &at
	return nil
}

// memBlocks exposes the repository's blocks to the availability service.
type memBlocks struct{ repo *memRepo }

func (m memBlocks) List(_ context.Context, f timeblock.Filter) ([]*timeblock.Block, error) {
	m.repo.mu.Lock()
	defer m.repo.mu.Unlock()
	var out []*timeblock.Block
	for _, b := range m.repo.allBlocks() {
		if b.ProviderID == f.ProviderID && b.IsOverlapping(f.From, f.To) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeSchedules struct{}

func (fakeSchedules) ForDate(_ context.Context, providerID string, date time.Time) (*schedule.Definition, error) {
	if schedule.WeekdayOf(date) == schedule.Sunday {
		return nil, nil
	}
	bs, be := schedule.MustClock("13:00"), schedule.MustClock("14:00")
	return &schedule.Definition{
		ProviderID:          providerID,
		DayOfWeek:           schedule.WeekdayOf(date),
		StartTime:           schedule.MustClock("09:00"),
		EndTime:             schedule.MustClock("18:00"),
		IsWorkingDay:        true,
		BreakStart:          &bs,
		BreakEnd:            &be,
		SlotDurationMinutes: 60,
	}, nil
}

type fakeCatalog map[string]*catalog.Service

func (f fakeCatalog) GetService(_ context.Context, id string) (*catalog.Service, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, catalog.ErrNotFound
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, e notify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *recordingDispatcher) Close() error { return nil }

func (d *recordingDispatcher) types() []notify.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []notify.EventType
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingScheduler struct {
	fireAt    map[string]time.Time
	cancelled []string
}

func (s *recordingScheduler) Schedule(_ context.Context, bookingID string, _ time.Time, fireAt time.Time) error {
	s.fireAt[bookingID] = fireAt
	return nil
}

func (s *recordingScheduler) Cancel(_ context.Context, bookingID string) error {
	s.cancelled = append(s.cancelled, bookingID)
	delete(s.fireAt, bookingID)
	return nil
}

func (s *recordingScheduler) Close() error { return nil }

const (
	providerID = "11111111-1111-1111-1111-111111111111"
	clientID   = "22222222-2222-2222-2222-222222222222"
	serviceID  = "33333333-3333-3333-3333-333333333333"
)

var (
	provider = auth.Actor{UserID: providerID, Role: auth.RoleProvider}
	client   = auth.Actor{UserID: clientID, Role: auth.RoleClient}
	stranger = auth.Actor{UserID: "44444444-4444-4444-4444-444444444444", Role: auth.RoleClient}

	// monday is 2026-10-19; bookings are made the day before.
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	now    = monday.Add(-12 * time.Hour)
)

func at(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type fixture struct {
	svc        Service
	repo       *memRepo
	slots      availability.Service
	dispatcher *recordingDispatcher
	reminders  *recordingScheduler
}

func newFixture() *fixture {
	repo := newMemRepo()
	cat := fakeCatalog{serviceID: {
		ID:              serviceID,
		ProviderID:      providerID,
		Name:            "Classic massage",
		DurationMinutes: 60,
		Price:           decimal.RequireFromString("3000.00"),
		TravelFee:       decimal.RequireFromString("500.00"),
		IsActive:        true,
	}}
	slots := availability.NewService(fakeSchedules{}, cat, memBlocks{repo}, nil, availability.Options{Location: time.UTC}, zap.NewNop())
	dispatcher := &recordingDispatcher{}
	reminders := &recordingScheduler{fireAt: map[string]time.Time{}}

	svc := NewService(repo, cat, slots, availability.NewNopCache(), dispatcher, reminders, Options{
		Location:       time.UTC,
		Policy:         CancellationPolicy{ClientCutoff: 2 * time.Hour, ProviderCutoff: time.Hour},
		ReminderOffset: 2 * time.Hour,
		PhoneRegion:    "RU",
	}, zap.NewNop())

	return &fixture{svc: svc, repo: repo, slots: slots, dispatcher: dispatcher, reminders: reminders}
}

func request(start string) CreateRequest {
	return CreateRequest{
		ProviderID:  providerID,
		ServiceID:   serviceID,
		Date:        monday,
		StartTime:   schedule.MustClock(start),
		ClientName:  "Anna",
		ClientPhone: "+7 (916) 123-45-67",
	}
}

func (f *fixture) book(t *testing.T, start string) *Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), client, request(start), now)
	require.NoError(t, err)
	return b
}

func (f *fixture) available(t *testing.T) []time.Time {
	t.Helper()
	slots, err := f.slots.GetAvailableSlots(context.Background(), providerID, serviceID, monday, now)
	require.NoError(t, err)
	return slots
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	req := request("10:00")
	req.IsHomeService = true
	b, err := f.svc.Create(ctx, client, req, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, clientID, b.ClientID)
	assert.Equal(t, at(10, 0), b.StartTime)
	assert.Equal(t, at(11, 0), b.EndTime)
	assert.Equal(t, 60, b.DurationMinutes)
	assert.Equal(t, "3500", b.TotalPrice.String())
	assert.Equal(t, "+79161234567", b.ClientPhone)
	assert.Regexp(t, `^BK-20261019-`, b.BookingNumber)
	assert.Equal(t, []notify.EventType{notify.EventBookingCreated}, f.dispatcher.types())

	block := f.repo.blocks[b.ID]
	require.NotNil(t, block)
	assert.Equal(t, timeblock.KindService, block.Kind)
	assert.Equal(t, b.ID, *block.BookingID)
	assert.Equal(t, 60, block.DurationMinutes)
}

func TestCreateWithoutTravel(t *testing.T) {
	f := newFixture()
	b := f.book(t, "11:00")
	assert.True(t, b.TravelFee.IsZero())
	assert.True(t, b.TotalPrice.Equal(b.ServicePrice))
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tests := []struct {
		name    string
		actor   auth.Actor
		mutate  func(r *CreateRequest)
		wantErr error
	}{
		{"outside hours", client, func(r *CreateRequest) { r.StartTime = schedule.MustClock("18:00") }, availability.ErrNotBookable},
		{"break", client, func(r *CreateRequest) { r.StartTime = schedule.MustClock("13:00") }, availability.ErrNotBookable},
		{"misaligned", client, func(r *CreateRequest) { r.StartTime = schedule.MustClock("10:30") }, availability.ErrNotBookable},
		{"day off", client, func(r *CreateRequest) { r.Date = monday.AddDate(0, 0, 6) }, availability.ErrNotBookable},
		{"in the past", client, func(r *CreateRequest) { r.Date = monday.AddDate(0, 0, -7) }, availability.ErrNotBookable},
		{"unknown service", client, func(r *CreateRequest) { r.ServiceID = uuid.NewString() }, catalog.ErrNotFound},
		{"foreign provider", client, func(r *CreateRequest) { r.ProviderID = uuid.NewString() }, catalog.ErrNotFound},
		{"bad phone", client, func(r *CreateRequest) { r.ClientPhone = "12345" }, ErrInvalidPhone},
		{"own service", provider, func(r *CreateRequest) {}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request("10:00")
			tt.mutate(&req)
			_, err := f.svc.Create(ctx, tt.actor, req, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.repo.bookings)
}

func TestCreateConcurrentSameSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	const n = 2
	var wg sync.WaitGroup
	results := make([]error, n)
	bookings := make([]*Booking, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bookings[i], results[i] = f.svc.Create(ctx, client, request("09:00"), now)
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for i, err := range results {
		switch {
		case err == nil:
			ok++
			assert.Equal(t, StatusPending, bookings[i].Status)
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, f.repo.bookings, 1)
}

func TestCreateNeverDoubleBooks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	starts := []string{"09:00", "10:00", "10:00", "11:00", "09:00", "12:00", "11:00", "14:00"}
	var wg sync.WaitGroup
	for _, s := range starts {
		wg.Add(1)
		go func(s string) {
			defer wg.Done()
			_, _ = f.svc.Create(ctx, client, request(s), now)
		}(s)
	}
	wg.Wait()

	var all []*Booking
	for _, b := range f.repo.bookings {
		all = append(all, b)
	}
	require.Len(t, all, 5)
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			overlap := all[i].StartTime.Before(all[j].EndTime) && all[j].StartTime.Before(all[i].EndTime)
			assert.False(t, overlap, "%s overlaps %s", all[i].StartTime, all[j].StartTime)
		}
	}
}

func TestCreateRespectsManualBlock(t *testing.T) {
	f := newFixture()
	blocked, err := timeblock.New(providerID, timeblock.KindBlocked, at(15, 0), at(17, 0))
	require.NoError(t, err)
	f.repo.manual = append(f.repo.manual, blocked)

	// The schedule allows 16:00; the overlapping block rejects the write.
	_, err = f.svc.Create(context.Background(), client, request("16:00"), now)
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NotContains(t, f.available(t), at(16, 0))
}

func TestBookedSlotLeavesAndReturnsToAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.Contains(t, f.available(t), at(10, 0))

	b := f.book(t, "10:00")
	assert.NotContains(t, f.available(t), at(10, 0))

	cancelled, err := f.svc.Cancel(ctx, client, b.ID, "changed plans", now)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.NotContains(t, f.repo.blocks, b.ID)
	assert.Contains(t, f.available(t), at(10, 0))

	// The slot can be booked again.
	f.book(t, "10:00")
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, "12:00")

	_, err := f.svc.Confirm(ctx, client, b.ID, now)
	assert.ErrorIs(t, err, ErrForbidden)

	confirmed, err := f.svc.Confirm(ctx, provider, b.ID, now)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, at(10, 0), f.reminders.fireAt[b.ID])

	_, err = f.svc.Confirm(ctx, provider, b.ID, now)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Equal(t, []notify.EventType{notify.EventBookingCreated, notify.EventBookingConfirmed}, f.dispatcher.types())
}

func TestConfirmCancelled(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, "12:00")

	_, err := f.svc.Cancel(ctx, provider, b.ID, "sick", now)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, provider, b.ID, now)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("reason is required", func(t *testing.T) {
		f := newFixture()
		b := f.book(t, "10:00")
		_, err := f.svc.Cancel(ctx, client, b.ID, "  ", now)
		assert.ErrorIs(t, err, ErrReasonRequired)
		assert.NotErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("strangers are forbidden", func(t *testing.T) {
		f := newFixture()
		b := f.book(t, "10:00")
		_, err := f.svc.Cancel(ctx, stranger, b.ID, "no", now)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("client cutoff", func(t *testing.T) {
		f := newFixture()
		b := f.book(t, "10:00")
		_, err := f.svc.Cancel(ctx, client, b.ID, "late", at(8, 30))
		assert.ErrorIs(t, err, ErrCancellationNotAllowed)
		assert.Contains(t, f.repo.blocks, b.ID, "rejected cancellation keeps the block")
	})

	t.Run("provider cancels late with fee", func(t *testing.T) {
		f := newFixture()
		b := f.book(t, "10:00")
		_, err := f.svc.Confirm(ctx, provider, b.ID, now)
		require.NoError(t, err)

		cancelled, err := f.svc.Cancel(ctx, provider, b.ID, "emergency", at(8, 30))
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)
		assert.Equal(t, providerID, *cancelled.CancelledBy)
		assert.Equal(t, "emergency", *cancelled.CancelReason)
		assert.Equal(t, 60, *cancelled.CancellationFeePercent)
		assert.Contains(t, f.reminders.cancelled, b.ID)
	})

	t.Run("early client cancellation is free", func(t *testing.T) {
		f := newFixture()
		b := f.book(t, "10:00")
		cancelled, err := f.svc.Cancel(ctx, client, b.ID, "plans", monday.Add(-48*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 0, *cancelled.CancellationFeePercent)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		f := newFixture()
		b := f.book(t, "10:00")
		_, err := f.svc.Cancel(ctx, client, b.ID, "plans", now)
		require.NoError(t, err)
		_, err = f.svc.Cancel(ctx, client, b.ID, "again", now)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, "10:00")

	_, err := f.svc.Complete(ctx, provider, b.ID, at(12, 0))
	assert.ErrorIs(t, err, ErrInvalidState, "pending bookings cannot complete")

	_, err = f.svc.Confirm(ctx, provider, b.ID, now)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, provider, b.ID, at(10, 30))
	assert.ErrorIs(t, err, ErrInvalidState, "booking has not ended")

	_, err = f.svc.Complete(ctx, client, b.ID, at(12, 0))
	assert.ErrorIs(t, err, ErrForbidden)

	done, err := f.svc.Complete(ctx, provider, b.ID, at(11, 0))
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Contains(t, f.repo.blocks, b.ID, "completed bookings keep their block")

	_, err = f.svc.Cancel(ctx, provider, b.ID, "too late", at(11, 0))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCompleteDue(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	early := f.book(t, "09:00")
	late := f.book(t, "16:00")
	pending := f.book(t, "10:00")
	for _, b := range []*Booking{early, late} {
		_, err := f.svc.Confirm(ctx, provider, b.ID, now)
		require.NoError(t, err)
	}

	n, err := f.svc.CompleteDue(ctx, at(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, StatusCompleted, f.repo.bookings[early.ID].Status)
	assert.Equal(t, StatusConfirmed, f.repo.bookings[late.ID].Status)
	assert.Equal(t, StatusPending, f.repo.bookings[pending.ID].Status)
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, "10:00")
	other := f.book(t, "15:00")

	_, err := f.svc.Reschedule(ctx, client, b.ID, monday, schedule.MustClock("15:00"), now)
	assert.ErrorIs(t, err, ErrSlotConflict)

	_, err = f.svc.Reschedule(ctx, client, b.ID, monday, schedule.MustClock("13:00"), now)
	assert.ErrorIs(t, err, availability.ErrNotBookable)

	moved, err := f.svc.Reschedule(ctx, client, b.ID, monday, schedule.MustClock("16:00"), now)
	require.NoError(t, err)
	assert.Equal(t, at(16, 0), moved.StartTime)
	assert.Equal(t, at(17, 0), moved.EndTime)
	assert.Equal(t, at(16, 0), f.repo.blocks[b.ID].StartTime)

	slots := f.available(t)
	assert.Contains(t, slots, at(10, 0))
	assert.NotContains(t, slots, at(16, 0))
	assert.NotContains(t, slots, at(15, 0))

	_, err = f.svc.Reschedule(ctx, stranger, other.ID, monday, schedule.MustClock("11:00"), now)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSendReminder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, "10:00")

	// Pending bookings get no reminder.
	require.NoError(t, f.svc.SendReminder(ctx, b.ID, at(8, 0)))
	assert.Nil(t, f.repo.bookings[b.ID].ReminderSentAt)

	_, err := f.svc.Confirm(ctx, provider, b.ID, now)
	require.NoError(t, err)

	require.NoError(t, f.svc.SendReminder(ctx, b.ID, at(8, 0)))
	require.NoError(t, f.svc.SendReminder(ctx, b.ID, at(8, 5)))
	require.NotNil(t, f.repo.bookings[b.ID].ReminderSentAt)
	assert.Equal(t, at(8, 0), *f.repo.bookings[b.ID].ReminderSentAt)

	var reminders int
	for _, typ := range f.dispatcher.types() {
		if typ == notify.EventBookingReminder {
			reminders++
		}
	}
	assert.Equal(t, 1, reminders)
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.book(t, "10:00")

	_, err := f.svc.Get(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.Get(ctx, provider, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.BookingNumber, got.BookingNumber)

	_, total, err := f.svc.List(ctx, stranger, Filter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	items, total, err := f.svc.List(ctx, provider, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, b.ID, items[0].ID)

	_, err = f.svc.Get(ctx, client, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
