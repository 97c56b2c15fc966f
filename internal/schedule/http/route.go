package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/providers/:provider_id/schedule")

	// === Public Routes ===
	group.GET("", h.GetWeek)

	// === Provider Routes ===
	provider := group.Group("")
	provider.Use(authMiddleware, auth.RequireRole(auth.RoleProvider))
	{
		provider.PUT("", h.SetWeek)
		provider.PUT("/days/:day", h.SetDay)
		provider.DELETE("/days/:day", h.DeleteDay)
		provider.GET("/overrides", h.ListOverrides)
		provider.PUT("/overrides/:date", h.SetOverride)
		provider.DELETE("/overrides/:date", h.DeleteOverride)
	}
}
