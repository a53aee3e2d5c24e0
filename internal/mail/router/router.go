// Package router provides mail module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/mail/handler"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
)

// RegisterRoutes registers the send-email endpoint for staff.
func RegisterRoutes(api *gin.RouterGroup, h *handler.Handler, mw *auth.Middleware) {
	functions := api.Group("/functions",
		mw.RequireAuth(),
		mw.RequireRole(profileModel.RoleOrganizer, profileModel.RoleAdmin),
	)
	functions.POST("/send-email", h.SendEmail)
}
