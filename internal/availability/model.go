// Package availability computes the bookable start times of a provider.
package availability

import (
	"context"
	"net/http"
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/apperror"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

// SearchDays bounds NextAvailable.
const SearchDays = 14

var (
	ErrNotBookable    = apperror.New(http.StatusUnprocessableEntity, "not_bookable", "requested time is outside the provider's schedule")
	ErrNoAvailability = apperror.New(http.StatusNotFound, "no_availability", "no free slot in the search window")
)

// ScheduleSource resolves the effective definition of a provider for one date.
// A nil definition with a nil error means the provider has no hours that day.
type ScheduleSource interface {
	ForDate(ctx context.Context, providerID string, date time.Time) (*schedule.Definition, error)
}

// BlockReader lists persisted calendar blocks.
type BlockReader interface {
	List(ctx context.Context, filter timeblock.Filter) ([]*timeblock.Block, error)
}

// Stats summarizes one provider day for a service duration.
type Stats struct {
	Date          time.Time
	Total         int
	Free          int
	Occupied      int
	OccupancyRate float64
}
