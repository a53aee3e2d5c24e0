// Package router provides project module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/eventhub/internal/auth"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	"github.com/festy23/eventhub/internal/project/handler"
)

// RegisterRoutes registers project routes.
func RegisterRoutes(api *gin.RouterGroup, h *handler.Handler, mw *auth.Middleware) {
	events := api.Group("/events/:id/projects", mw.RequireAuth())
	events.POST("", h.Submit)
	events.GET("", h.ListByEvent)
	events.GET("/export", h.ExportByEvent)

	api.GET("/projects/:id", h.Get)
	projects := api.Group("/projects", mw.RequireAuth())
	projects.POST("", h.Create)
	projects.PUT("/:id", h.Update)
	projects.DELETE("/:id", h.Delete)
	projects.POST("/:id/members", h.AddMember)
	projects.DELETE("/:id/members/:userId", h.RemoveMember)

	api.GET("/profiles/me/projects", mw.RequireAuth(), h.ListMine)

	admin := api.Group("/admin/projects", mw.RequireAuth(), mw.RequireRole(profileModel.RoleAdmin))
	admin.GET("", h.List)
	admin.DELETE("/:id", h.Delete)
}
