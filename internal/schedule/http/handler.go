package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/request"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/response"
	"github.com/ilya24037/www.spa.com-sub004/internal/schedule"
)

type Handler struct {
	service schedule.Service
	loc     *time.Location
}

// NewHandler creates a schedule handler. Dates in paths are interpreted in loc.
func NewHandler(service schedule.Service, loc *time.Location) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
	}
}

// GetWeek returns the provider's weekly schedule.
func (h *Handler) GetWeek(c *gin.Context) {
	var uri request.ProviderRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	week, err := h.service.GetWeek(c.Request.Context(), uri.ProviderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWeekResponse(uri.ProviderID, week))
}

// SetWeek applies the same hours to a set of weekdays.
func (h *Handler) SetWeek(c *gin.Context) {
	var uri request.ProviderRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var body SetWeekBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Validation(c, err)
		return
	}

	tmpl, err := body.ToDefinition()
	if err != nil {
		response.Error(c, err)
		return
	}

	week, err := h.service.SetDays(c.Request.Context(), auth.GetActor(c), uri.ProviderID, body.Days, tmpl)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWeekResponse(uri.ProviderID, week))
}

// SetDay creates or replaces one weekday.
func (h *Handler) SetDay(c *gin.Context) {
	var uri DayURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path parameters", "details": err.Error()})
		return
	}

	var body DayBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Validation(c, err)
		return
	}

	def, err := body.ToDefinition()
	if err != nil {
		response.Error(c, err)
		return
	}
	def.ProviderID = uri.ProviderID
	def.DayOfWeek = schedule.Weekday(uri.Day)

	saved, err := h.service.SetDay(c.Request.Context(), auth.GetActor(c), &def)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDefinitionResponse(saved))
}

// DeleteDay removes a weekday definition.
func (h *Handler) DeleteDay(c *gin.Context) {
	var uri DayURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path parameters", "details": err.Error()})
		return
	}

	if err := h.service.DeleteDay(c.Request.Context(), auth.GetActor(c), uri.ProviderID, schedule.Weekday(uri.Day)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListOverrides(c *gin.Context) {
	var uri request.ProviderRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var q ListOverridesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	from, _ := time.ParseInLocation(time.DateOnly, q.From, h.loc)
	to, _ := time.ParseInLocation(time.DateOnly, q.To, h.loc)

	overrides, err := h.service.ListOverrides(c.Request.Context(), uri.ProviderID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]OverrideResponse, len(overrides))
	for i, o := range overrides {
		items[i] = NewOverrideResponse(o)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) SetOverride(c *gin.Context) {
	var uri OverrideURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path parameters", "details": err.Error()})
		return
	}

	var body OverrideBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Validation(c, err)
		return
	}

	date, _ := time.ParseInLocation(time.DateOnly, uri.Date, h.loc)
	o, err := body.ToOverride(uri.ProviderID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	saved, err := h.service.SetOverride(c.Request.Context(), auth.GetActor(c), o)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOverrideResponse(saved))
}

func (h *Handler) DeleteOverride(c *gin.Context) {
	var uri OverrideURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path parameters", "details": err.Error()})
		return
	}

	date, _ := time.ParseInLocation(time.DateOnly, uri.Date, h.loc)
	if err := h.service.DeleteOverride(c.Request.Context(), auth.GetActor(c), uri.ProviderID, date); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
