package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/providers/:provider_id/availability")

	// === Public Routes ===
	group.GET("", h.GetSlots)
	group.GET("/next", h.GetNext)
	group.GET("/stats", h.GetStats)
}
