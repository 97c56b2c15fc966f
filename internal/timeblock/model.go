package timeblock

import (
	"net/http"
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "time_block_not_found", "time block not found")
	ErrInvalidInterval = apperror.New(http.StatusUnprocessableEntity, "invalid_interval", "invalid time interval")
	ErrSlotConflict    = apperror.New(http.StatusConflict, "slot_conflict", "time slot is no longer available")
	ErrForbidden       = apperror.New(http.StatusForbidden, "forbidden", "only the provider can change this calendar")
	ErrInvalidKind     = apperror.New(http.StatusUnprocessableEntity, "validation_error", "invalid time block kind")
	ErrLinkedToBooking = apperror.New(http.StatusConflict, "linked_to_booking", "service blocks can only be changed through their booking")
	ErrNotBlocked      = apperror.New(http.StatusConflict, "invalid_state", "time block is not blocked")
	ErrNotUnblockable  = apperror.New(http.StatusConflict, "invalid_state", "manual block has no previous kind, delete it instead")
)

// Kind tags the purpose of a block.
type Kind string

const (
	KindService     Kind = "service"
	KindBreak       Kind = "break"
	KindPreparation Kind = "preparation"
	KindBlocked     Kind = "blocked"
)

func (k Kind) Valid() bool {
	switch k {
	case KindService, KindBreak, KindPreparation, KindBlocked:
		return true
	}
	return false
}

// Block is a persisted interval of a provider's calendar (booking_slots row).
type Block struct {
	ID         string
	ProviderID string
	// BookingID is set exactly when Kind is KindService.
	BookingID       *string
	Resource        Resource
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Kind            Kind
	// PriorKind remembers the kind replaced by Block so Unblock can restore it.
	PriorKind Kind
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds a normalized block.
func New(providerID string, kind Kind, start, end time.Time) (*Block, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	b := &Block{
		ProviderID: providerID,
		Kind:       kind,
		StartTime:  start,
		EndTime:    end,
	}
	if err := b.Normalize(); err != nil {
		return nil, err
	}
	return b, nil
}

// Filter defines parameters for listing blocks.
type Filter struct {
	ProviderID string
	From       time.Time
	To         time.Time
	Kinds      []Kind
}
