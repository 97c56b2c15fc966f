package http

import (
	"time"

	"github.com/ilya24037/www.spa.com-sub004/internal/availability"
)

type SlotsQuery struct {
	ServiceID string `form:"service_id" binding:"required,uuid"`
	Date      string `form:"date" binding:"required,datetime=2006-01-02"`
}

type NextQuery struct {
	ServiceID string `form:"service_id" binding:"required,uuid"`
	// From defaults to now.
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
}

type NextResponse struct {
	StartTime time.Time `json:"start_time"`
}

type StatsResponse struct {
	Date          string  `json:"date"`
	Total         int     `json:"total"`
	Free          int     `json:"free"`
	Occupied      int     `json:"occupied"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

func NewStatsResponse(st *availability.Stats) StatsResponse {
	return StatsResponse{
		Date:          st.Date.Format(time.DateOnly),
		Total:         st.Total,
		Free:          st.Free,
		Occupied:      st.Occupied,
		OccupancyRate: st.OccupancyRate,
	}
}
