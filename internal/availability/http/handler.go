package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilya24037/www.spa.com-sub004/internal/availability"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/request"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/response"
)

type Handler struct {
	service availability.Service
	loc     *time.Location
	now     func() time.Time
}

func NewHandler(service availability.Service, loc *time.Location, now func() time.Time) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		now:     now,
	}
}

// GetSlots returns the free start times as a JSON array, empty when nothing is free.
func (h *Handler) GetSlots(c *gin.Context) {
	var uri request.ProviderRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var q SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	date, _ := time.ParseInLocation(time.DateOnly, q.Date, h.loc)

	slots, err := h.service.GetAvailableSlots(c.Request.Context(), uri.ProviderID, q.ServiceID, date, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

func (h *Handler) GetNext(c *gin.Context) {
	var uri request.ProviderRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var q NextQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	now := h.now()
	from := now
	if q.From != "" {
		from, _ = time.ParseInLocation(time.DateOnly, q.From, h.loc)
	}

	start, err := h.service.NextAvailable(c.Request.Context(), uri.ProviderID, q.ServiceID, from, now)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NextResponse{StartTime: start})
}

func (h *Handler) GetStats(c *gin.Context) {
	var uri request.ProviderRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var q SlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	date, _ := time.ParseInLocation(time.DateOnly, q.Date, h.loc)

	st, err := h.service.Stats(c.Request.Context(), uri.ProviderID, q.ServiceID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewStatsResponse(st))
}
