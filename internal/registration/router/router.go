// Package router provides registration module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/registration/handler"
)

// RegisterRoutes registers registration routes.
func RegisterRoutes(api *gin.RouterGroup, h *handler.Handler, mw *auth.Middleware) {
	events := api.Group("/events/:id", mw.RequireAuth())
	events.POST("/register", h.Register)
	events.GET("/registration", h.GetMine)
	events.DELETE("/registration", h.Cancel)
	events.GET("/registrations", h.ListByEvent)
	events.GET("/registrations/export", h.Export)

	api.GET("/profiles/me/registrations", mw.RequireAuth(), h.MyRegistrations)

	reviews := api.Group("/registrations", mw.RequireAuth())
	reviews.PATCH("/:id/approve", h.Approve)
	reviews.PATCH("/:id/reject", h.Reject)
}
