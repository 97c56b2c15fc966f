package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// === Provider Routes ===
	provider := g.Group("")
	provider.Use(authMiddleware, auth.RequireRole(auth.RoleProvider))
	{
		provider.GET("/providers/:provider_id/blocks", h.ListForDay)

		blocks := provider.Group("/blocks")
		blocks.POST("", h.Create)
		blocks.GET("/:id", h.Get)
		blocks.POST("/:id/extend", h.Extend)
		blocks.POST("/:id/shorten", h.Shorten)
		blocks.POST("/:id/move", h.Move)
		blocks.POST("/:id/split", h.Split)
		blocks.POST("/:id/block", h.Block)
		blocks.POST("/:id/unblock", h.Unblock)
		blocks.DELETE("/:id", h.Delete)
	}
}
