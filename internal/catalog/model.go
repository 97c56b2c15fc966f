// Package catalog reads the provider service catalog owned by the listings module.
package catalog

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/apperror"
)

var (
	ErrNotFound = apperror.New(http.StatusNotFound, "service_not_found", "service not found")
	ErrInactive = apperror.New(http.StatusUnprocessableEntity, "service_inactive", "service is not bookable")
)

// Service is a bookable offering of one provider.
type Service struct {
	ID              string
	ProviderID      string
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	// TravelFee is charged on top of Price for home visits.
	TravelFee decimal.Decimal
	IsActive  bool
}

// Catalog resolves services by id.
type Catalog interface {
	GetService(ctx context.Context, id string) (*Service, error)
}
