// Package router provides statistics module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/eventhub/internal/auth"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	"github.com/festy23/eventhub/internal/statistics/handler"
)

// RegisterRoutes registers statistics routes.
func RegisterRoutes(api *gin.RouterGroup, h *handler.Handler, mw *auth.Middleware) {
	api.GET("/admin/statistics", mw.RequireAuth(), mw.RequireRole(profileModel.RoleAdmin), h.Platform)
	api.GET("/events/:id/statistics", mw.RequireAuth(), h.ForEvent)
}
