package booking

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/apperror"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

var (
	ErrNotFound               = apperror.New(http.StatusNotFound, "booking_not_found", "booking not found")
	ErrSlotConflict           = timeblock.ErrSlotConflict
	ErrInvalidState           = apperror.New(http.StatusConflict, "invalid_state", "booking cannot change from its current status")
	ErrCancellationNotAllowed = apperror.New(http.StatusConflict, "cancellation_not_allowed", "booking can no longer be cancelled")
	ErrForbidden              = apperror.New(http.StatusForbidden, "forbidden", "not allowed to act on this booking")
	ErrReasonRequired         = apperror.New(http.StatusUnprocessableEntity, "validation_error", "cancellation reason is required")
	ErrInvalidPhone           = apperror.New(http.StatusUnprocessableEntity, "validation_error", "invalid client phone number")
	ErrInvalidRange           = apperror.New(http.StatusUnprocessableEntity, "validation_error", "from must not be after to")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the booking still holds its calendar block for the future.
// Only terminal statuses, which no transition leaves, are inactive.
func (s Status) IsActive() bool {
	return len(transitions[s]) > 0
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID            string
	BookingNumber string
	ClientID      string
	ProviderID    string
	ServiceID     string
	// BookingDate is the calendar date of StartTime in the service location.
	BookingDate     time.Time
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	IsHomeService   bool
	ClientName      string
	ClientPhone     string
	ClientEmail     string
	ClientComment   string
	ServicePrice    decimal.Decimal
	TravelFee       decimal.Decimal
	TotalPrice      decimal.Decimal
	Status          Status
	PaymentStatus   PaymentStatus
	CancelReason    *string
	CancelledBy     *string
	// CancellationFeePercent is set when the booking is cancelled.
	CancellationFeePercent *int
	ConfirmedAt            *time.Time
	CancelledAt            *time.Time
	CompletedAt            *time.Time
	ReminderSentAt         *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type Filter struct {
	ClientID   string
	ProviderID string
	Status     Status
	From       *time.Time // Bookings ending after this time
	To         *time.Time // Bookings starting before this time
	Page       int
	PageSize   int
	SortOrder  string
}
