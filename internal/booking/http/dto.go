package http

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/booking"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/request"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	Status string     `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	From   *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To     *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return booking.ErrInvalidRange
	}
	return nil
}

type CreateBookingRequest struct {
	ProviderID    string          `json:"provider_id" binding:"required,uuid"`
	ServiceID     string          `json:"service_id" binding:"required,uuid"`
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime     *schedule.Clock `json:"start_time" binding:"required"`
	IsHomeService bool            `json:"is_home_service"`
	ClientName    string          `json:"client_name" binding:"required,max=255"`
	ClientPhone   string          `json:"client_phone" binding:"required,max=32"`
	ClientEmail   string          `json:"client_email" binding:"omitempty,email"`
	ClientComment string          `json:"client_comment" binding:"max=1000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type RescheduleBookingRequest struct {
	Date      string          `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime *schedule.Clock `json:"start_time" binding:"required"`
}

type BookingResponse struct {
	ID                     string     `json:"id"`
	BookingNumber          string     `json:"booking_number"`
	ClientID               string     `json:"client_id"`
	ProviderID             string     `json:"provider_id"`
	ServiceID              string     `json:"service_id"`
	BookingDate            string     `json:"booking_date"`
	StartTime              time.Time  `json:"start_time"`
	EndTime                time.Time  `json:"end_time"`
	DurationMinutes        int        `json:"duration_minutes"`
	IsHomeService          bool       `json:"is_home_service"`
	ClientName             string     `json:"client_name"`
	ClientPhone            string     `json:"client_phone"`
	ClientEmail            string     `json:"client_email,omitempty"`
	ClientComment          string     `json:"client_comment,omitempty"`
	ServicePrice           string     `json:"service_price"`
	TravelFee              string     `json:"travel_fee"`
	TotalPrice             string     `json:"total_price"`
	Status                 string     `json:"status"`
	PaymentStatus          string     `json:"payment_status"`
	CancelReason           *string    `json:"cancel_reason,omitempty"`
	CancelledBy            *string    `json:"cancelled_by,omitempty"`
	CancellationFeePercent *int       `json:"cancellation_fee_percent,omitempty"`
	ConfirmedAt            *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt            *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
	ReminderSentAt         *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                     b.ID,
		BookingNumber:          b.BookingNumber,
		ClientID:               b.ClientID,
		ProviderID:             b.ProviderID,
		ServiceID:              b.ServiceID,
		BookingDate:            b.BookingDate.Format(time.DateOnly),
		StartTime:              b.StartTime,
		EndTime:                b.EndTime,
		DurationMinutes:        b.DurationMinutes,
		IsHomeService:          b.IsHomeService,
		ClientName:             b.ClientName,
		ClientPhone:            b.ClientPhone,
		ClientEmail:            b.ClientEmail,
		ClientComment:          b.ClientComment,
		ServicePrice:           b.ServicePrice.StringFixed(2),
		TravelFee:              b.TravelFee.StringFixed(2),
		TotalPrice:             b.TotalPrice.StringFixed(2),
		Status:                 string(b.Status),
		PaymentStatus:          string(b.PaymentStatus),
		CancelReason:           b.CancelReason,
		CancelledBy:            b.CancelledBy,
		CancellationFeePercent: b.CancellationFeePercent,
		ConfirmedAt:            b.ConfirmedAt,
		CancelledAt:            b.CancelledAt,
		CompletedAt:            b.CompletedAt,
		ReminderSentAt:         b.ReminderSentAt,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}
