// Package notify hands booking events to the notification collaborator.
package notify

import "time"

type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingConfirmed   EventType = "booking.confirmed"
	EventBookingCancelled   EventType = "booking.cancelled"
	EventBookingCompleted   EventType = "booking.completed"
	EventBookingRescheduled EventType = "booking.rescheduled"
	EventBookingReminder    EventType = "booking.reminder"
)

// Event is the payload published for every booking lifecycle change.
type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	BookingID     string    `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ProviderID    string    `json:"provider_id"`
	ClientID      string    `json:"client_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	Reason        *string   `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
