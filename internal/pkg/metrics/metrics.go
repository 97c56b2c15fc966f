// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduling",
		Name:      "bookings_created_total",
		Help:      "Bookings created in pending state.",
	})

	SlotConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduling",
		Name:      "slot_conflicts_total",
		Help:      "Booking or block writes rejected because the interval was taken.",
	})

	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduling",
		Name:      "booking_transitions_total",
		Help:      "Booking status transitions by target status.",
	}, []string{"status"})

	AvailabilityCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduling",
		Name:      "availability_cache_total",
		Help:      "Availability cache lookups by result.",
	}, []string{"result"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
