// Package router provides form module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/form/handler"
)

// RegisterRoutes registers registration form routes.
func RegisterRoutes(api *gin.RouterGroup, h *handler.Handler, mw *auth.Middleware) {
	api.GET("/events/:id/form", mw.OptionalAuth(), h.Get)

	events := api.Group("/events/:id", mw.RequireAuth())
	events.PUT("/form", h.Replace)
	events.DELETE("/form", h.Delete)
	events.GET("/submissions", h.ListSubmissions)
	events.GET("/submissions/export", h.ExportSubmissions)
}
