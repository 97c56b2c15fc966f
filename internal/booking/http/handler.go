package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/booking"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/request"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/response"
)

type Handler struct {
	service booking.Service
	loc     *time.Location
	now     func() time.Time
}

func NewHandler(service booking.Service, loc *time.Location, now func() time.Time) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		now:     now,
	}
}

func (h *Handler) List(c *gin.Context) {
	var q ListBookingsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if err := q.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	filter := booking.Filter{
		Status:    booking.Status(q.Status),
		From:      q.From,
		To:        q.To,
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortOrder: q.SortOrder,
	}

	bookings, total, err := h.service.List(c.Request.Context(), auth.GetActor(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Validation(c, err)
		return
	}
	date, _ := time.ParseInLocation(time.DateOnly, body.Date, h.loc)

	req := booking.CreateRequest{
		ProviderID:    body.ProviderID,
		ServiceID:     body.ServiceID,
		Date:          date,
		StartTime:     *body.StartTime,
		IsHomeService: body.IsHomeService,
		ClientName:    body.ClientName,
		ClientPhone:   body.ClientPhone,
		ClientEmail:   body.ClientEmail,
		ClientComment: body.ClientComment,
	}

	b, err := h.service.Create(c.Request.Context(), auth.GetActor(c), req, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.Get(c.Request.Context(), auth.GetActor(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Confirm(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), auth.GetActor(c), uri.ID, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body CancelBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Validation(c, err)
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), auth.GetActor(c), uri.ID, body.Reason, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Complete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.Complete(c.Request.Context(), auth.GetActor(c), uri.ID, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Reschedule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body RescheduleBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Validation(c, err)
		return
	}
	date, _ := time.ParseInLocation(time.DateOnly, body.Date, h.loc)

	b, err := h.service.Reschedule(c.Request.Context(), auth.GetActor(c), uri.ID, date, *body.StartTime, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
