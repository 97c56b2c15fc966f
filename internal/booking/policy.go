package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
)

// CancellationPolicy holds the provider configurable cutoff windows.
type CancellationPolicy struct {
	// ClientCutoff is how long before the start a client may still cancel or reschedule.
	ClientCutoff time.Duration
	// ProviderCutoff is the same window for the provider.
	ProviderCutoff time.Duration
}

// Check returns ErrCancellationNotAllowed when actor is too late to cancel b.
// Admins are not bound by the cutoff.
func (p CancellationPolicy) Check(b *Booking, actor auth.Actor, now time.Time) error {
	if actor.IsAdmin() {
		return nil
	}
	cutoff := p.ClientCutoff
	if actor.UserID == b.ProviderID {
		cutoff = p.ProviderCutoff
	}
	if now.Add(cutoff).After(b.StartTime) {
		if cutoff == 0 {
			return ErrCancellationNotAllowed.WithMessage("booking has already started")
		}
		return ErrCancellationNotAllowed.WithMessage(
			fmt.Sprintf("booking can only be changed up to %s before its start", cutoff),
		)
	}
	return nil
}

// CancellationFee returns the share of the total price, in percent, charged
// for cancelling untilStart before the booking begins.
func CancellationFee(untilStart time.Duration, byProvider bool) int {
	if untilStart >= 24*time.Hour {
		return 0
	}
	fee := 20.0
	if untilStart < 4*time.Hour {
		fee *= 2
	}
	if byProvider {
		fee *= 1.5
	}
	if fee > 100 {
		fee = 100
	}
	return int(fee)
}

// NewBookingNumber formats a human readable reference like BK-20261019-4F2A9C.
func NewBookingNumber(date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("BK-%s-%s", date.Format("20060102"), suffix)
}
