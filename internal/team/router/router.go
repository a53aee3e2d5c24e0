// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/team/handler"
)

// RegisterRoutes registers team routes.
func RegisterRoutes(api *gin.RouterGroup, h *handler.Handler, mw *auth.Middleware) {
	teams := api.Group("/events/:id/teams", mw.RequireAuth())
	teams.GET("", h.ListByEvent)
	teams.POST("", h.Create)
	teams.POST("/join", h.Join)
	teams.GET("/mine", h.GetMine)
	teams.DELETE("/mine", h.Leave)
	teams.DELETE("/mine/members/:userId", h.RemoveMember)
	teams.GET("/mine/qr", h.ReferralQR)
	teams.GET("/mine/stream", h.Stream)
}
