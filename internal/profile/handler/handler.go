// Package handler provides HTTP handlers for profile endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/pagination"
	"github.com/festy23/eventhub/internal/profile/model"
	"github.com/festy23/eventhub/internal/profile/service"
	"github.com/festy23/eventhub/internal/storage"
)

// Handler handles HTTP requests for profile endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new profile handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Signup handles POST /auth/signup request.
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Request"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} apierror.ErrorResponse
// @Failure 409 {object} apierror.ErrorResponse "CONFLICT"
// @Router /auth/signup [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login request.
// @Summary Obtain an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Request"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} apierror.ErrorResponse
// @Failure 403 {object} apierror.ErrorResponse "Banned"
// @Router /auth/login [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AdminLogin handles POST /auth/admin/login request.
// @Summary Obtain an administrator token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Request"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} apierror.ErrorResponse
// @Failure 403 {object} apierror.ErrorResponse "Not an administrator"
// @Router /auth/admin/login [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) AdminLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe handles GET /profiles/me request.
// @Summary Get the caller's profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 401 {object} apierror.ErrorResponse
// @Router /profiles/me [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetMe(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	profile, err := h.service.GetMe(c.Request.Context(), principal.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMe handles PUT /profiles/me request.
// @Summary Update the caller's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param request body model.UpdateProfileRequest true "Request"
// @Success 200 {object} model.Profile
// @Failure 400 {object} apierror.ErrorResponse
// @Router /profiles/me [put] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) UpdateMe(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid request body")
		return
	}

	profile, err := h.service.UpdateMe(c.Request.Context(), principal.ID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar handles POST /profiles/me/avatar request.
// @Summary Upload an avatar image
// @Tags Profiles
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 200 {object} model.Profile
// @Failure 400 {object} apierror.ErrorResponse
// @Router /profiles/me/avatar [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) UploadAvatar(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		apierror.BadRequest(c, "file is required")
		return
	}

	profile, err := h.service.UploadAvatar(c.Request.Context(), principal.ID, fh)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListUsers handles GET /admin/users request.
// @Summary List users
// @Tags Admin
// @Produce json
// @Param role query string false "Role filter"
// @Param q query string false "Email or name search"
// @Success 200 {object} model.ListResponse
// @Router /admin/users [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListUsers(c *gin.Context) {
	filter := model.ListFilter{
		Role:  c.Query("role"),
		Query: c.Query("q"),
		Page:  pagination.FromQuery(c),
	}

	resp, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetRole handles PATCH /admin/users/:id/role request.
// @Summary Change a user's role
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body model.SetRoleRequest true "Request"
// @Success 200 {object} model.Profile
// @Router /admin/users/{id}/role [patch] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) SetRole(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	userID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req model.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "role must be one of: user, organizer, admin")
		return
	}

	profile, err := h.service.SetRole(c.Request.Context(), principal.ID, userID, req.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SetBanned handles PATCH /admin/users/:id/ban request.
// @Summary Ban or unban a user
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body model.SetBanRequest true "Request"
// @Success 200 {object} model.Profile
// @Router /admin/users/{id}/ban [patch] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) SetBanned(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	userID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req model.SetBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "banned is required")
		return
	}

	profile, err := h.service.SetBanned(c.Request.Context(), principal.ID, userID, *req.Banned)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteUser handles DELETE /admin/users/:id request.
// @Summary Delete a user
// @Tags Admin
// @Param id path string true "User ID"
// @Success 204
// @Router /admin/users/{id} [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) DeleteUser(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	userID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), principal.ID, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrProfileNotFound):
		apierror.NotFound(c, "profile not found")
	case errors.Is(err, model.ErrEmailTaken):
		apierror.Respond(c, http.StatusConflict, apierror.CodeConflict, "email already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		apierror.Unauthorized(c, "invalid email or password")
	case errors.Is(err, model.ErrBanned):
		apierror.Forbidden(c, "account is banned")
	case errors.Is(err, model.ErrNotAdmin):
		apierror.Forbidden(c, "administrator account required")
	case errors.Is(err, model.ErrInvalidRole):
		apierror.BadRequest(c, "invalid role")
	case errors.Is(err, model.ErrSelfModification):
		apierror.BadRequest(c, "cannot modify your own account")
	case errors.Is(err, auth.ErrPasswordTooShort):
		apierror.BadRequest(c, "password must be at least 8 characters")
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrTooLarge):
		apierror.BadRequest(c, err.Error())
	default:
		h.logger.Errorw("profile request failed", "path", c.FullPath(), "error", err)
		apierror.Internal(c)
	}
}
