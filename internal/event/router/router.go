// Package router provides event module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/event/handler"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
)

// RegisterRoutes registers event routes.
func RegisterRoutes(api *gin.RouterGroup, h *handler.Handler, mw *auth.Middleware) {
	public := api.Group("/events", mw.OptionalAuth())
	public.GET("", h.List)
	public.GET("/:id", h.Get)
	public.GET("/:id/submission-window", h.SubmissionWindow)

	authed := api.Group("/events", mw.RequireAuth())
	authed.POST("", mw.RequireRole(profileModel.RoleOrganizer, profileModel.RoleAdmin), h.Create)
	authed.PUT("/:id", h.Update)
	authed.DELETE("/:id", h.Delete)
	authed.POST("/:id/banner", h.UploadBanner)
}
