// Package router provides profile module routes registration.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/profile/handler"
	"github.com/festy23/eventhub/internal/profile/model"
)

// RegisterRoutes registers auth, profile and user administration routes.
func RegisterRoutes(api *gin.RouterGroup, h *handler.Handler, mw *auth.Middleware) {
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", h.Signup)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/admin/login", h.AdminLogin)

	me := api.Group("/profiles/me", mw.RequireAuth())
	me.GET("", h.GetMe)
	me.PUT("", h.UpdateMe)
	me.POST("/avatar", h.UploadAvatar)

	admin := api.Group("/admin/users", mw.RequireAuth(), mw.RequireRole(model.RoleAdmin))
	admin.GET("", h.ListUsers)
	admin.PATCH("/:id/role", h.SetRole)
	admin.PATCH("/:id/ban", h.SetBanned)
	admin.DELETE("/:id", h.DeleteUser)
}
