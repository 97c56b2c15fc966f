package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/request"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/response"
	"github.com/ilya24037/www.spa.com-sub004/internal/timeblock"
)

type Handler struct {
	service timeblock.Service
	loc     *time.Location
}

func NewHandler(service timeblock.Service, loc *time.Location) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
	}
}

func (h *Handler) ListForDay(c *gin.Context) {
	var uri request.ProviderRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	var q ListBlocksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	date, _ := time.ParseInLocation(time.DateOnly, q.Date, h.loc)

	blocks, err := h.service.ListForDay(c.Request.Context(), auth.GetActor(c), uri.ProviderID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBlockListResponse(blocks))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBlockRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Validation(c, err)
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	actor := auth.GetActor(c)
	providerID := body.ProviderID
	if providerID == "" {
		providerID = actor.UserID
	}
	res, _ := timeblock.ParseResource(body.ResourceType, body.ResourceID)

	b, err := h.service.Create(c.Request.Context(), actor, timeblock.CreateRequest{
		ProviderID: providerID,
		Kind:       timeblock.Kind(body.Kind),
		Resource:   res,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
		Notes:      body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBlockResponse(b))
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

	c.JSON(http.StatusOK, NewBlockResponse(b))
}

func (h *Handler) Extend(c *gin.Context) {
	h.byMinutes(c, false, h.service.Extend)
}

func (h *Handler) Shorten(c *gin.Context) {
	h.byMinutes(c, false, h.service.Shorten)
}

func (h *Handler) Move(c *gin.Context) {
	h.byMinutes(c, true, h.service.Move)
}

// byMinutes binds the block ID and a minutes body, then runs op.
// Only a move may carry a negative step.
func (h *Handler) byMinutes(c *gin.Context, signed bool, op func(ctx context.Context, actor auth.Actor, id string, minutes int) (*timeblock.Block, error)) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var minutes int
	if signed {
		var body MoveRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Validation(c, err)
			return
		}
		minutes = body.Minutes
	} else {
		var body MinutesRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Validation(c, err)
			return
		}
		minutes = body.Minutes
	}

	b, err := op(c.Request.Context(), auth.GetActor(c), uri.ID, minutes)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBlockResponse(b))
}

func (h *Handler) Split(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body SplitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Validation(c, err)
		return
	}

	blocks, err := h.service.Split(c.Request.Context(), auth.GetActor(c), uri.ID, body.At)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBlockListResponse(blocks))
}

func (h *Handler) Block(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body BlockRequest
	// Body is optional.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Validation(c, err)
			return
		}
	}

	b, err := h.service.Block(c.Request.Context(), auth.GetActor(c), uri.ID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBlockResponse(b))
}

func (h *Handler) Unblock(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.Unblock(c.Request.Context(), auth.GetActor(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBlockResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.GetActor(c), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
