// Package handler provides HTTP handlers for registration endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/export"
	formModel "github.com/festy23/eventhub/internal/form/model"
	"github.com/festy23/eventhub/internal/registration/model"
	"github.com/festy23/eventhub/internal/registration/service"
)

// Handler handles HTTP requests for registration endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new registration handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register handles POST /events/:id/register request.
// @Summary Register for an event
// @Tags Registrations
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body model.RegisterRequest false "Request"
// @Success 201 {object} model.Registration
// @Failure 400 {object} apierror.ErrorResponse "Invalid form responses"
// @Failure 403 {object} apierror.ErrorResponse "REGISTRATION_CLOSED"
// @Failure 409 {object} apierror.ErrorResponse "ALREADY_REGISTERED or EVENT_FULL"
// @Router /events/{id}/register [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Register(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req model.RegisterRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierror.BadRequest(c, "invalid request body")
			return
		}
	}

	registration, err := h.service.Register(c.Request.Context(), principal, eventID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

// GetMine handles GET /events/:id/registration request.
// @Summary Get the caller's registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.Registration
// @Failure 404 {object} apierror.ErrorResponse
// @Router /events/{id}/registration [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetMine(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	registration, err := h.service.GetMine(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// Cancel handles DELETE /events/:id/registration request.
// @Summary Cancel the caller's registration
// @Tags Registrations
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} apierror.ErrorResponse
// @Router /events/{id}/registration [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Cancel(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), principal, eventID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MyRegistrations handles GET /profiles/me/registrations request.
// @Summary List the caller's registrations
// @Tags Registrations
// @Produce json
// @Success 200 {array} model.MyRegistration
// @Router /profiles/me/registrations [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) MyRegistrations(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	registrations, err := h.service.MyRegistrations(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": registrations, "total": len(registrations)})
}

// ListByEvent handles GET /events/:id/registrations request.
// @Summary List registrations of an event
// @Tags Registrations
// @Produce json
// @Param id path string true "Event ID"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} model.RegistrationView
// @Failure 403 {object} apierror.ErrorResponse
// @Router /events/{id}/registrations [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListByEvent(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	registrations, err := h.service.ListByEvent(c.Request.Context(), principal, eventID, c.Query("status"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": registrations, "total": len(registrations)})
}

// Approve handles PATCH /registrations/:id/approve request.
// @Summary Approve a registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} model.Registration
// @Router /registrations/{id}/approve [patch] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

// Reject handles PATCH /registrations/:id/reject request.
// @Summary Reject a registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} model.Registration
// @Router /registrations/{id}/reject [patch] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

type reviewFunc func(ctx context.Context, actor *auth.Principal, id uuid.UUID) (*model.Registration, error)

func (h *Handler) review(c *gin.Context, fn reviewFunc) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	registration, err := fn(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// Export handles GET /events/:id/registrations/export request.
// @Summary Export registrations
// @Tags Registrations
// @Produce text/csv
// @Param id path string true "Event ID"
// @Param format query string false "csv or xlsx"
// @Success 200 {file} file
// @Router /events/{id}/registrations/export [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Export(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		apierror.BadRequest(c, "format must be csv or xlsx")
		return
	}

	table, err := h.service.Export(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if err := export.Respond(c, table, format, "registrations"); err != nil {
		h.handleError(c, err)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, eventModel.ErrEventNotFound):
		apierror.NotFound(c, "event not found")
	case errors.Is(err, model.ErrRegistrationNotFound):
		apierror.NotFound(c, err.Error())
	case errors.Is(err, model.ErrAlreadyRegistered):
		apierror.Respond(c, http.StatusConflict, apierror.CodeAlreadyRegistered, err.Error())
	case errors.Is(err, model.ErrEventFull):
		apierror.Respond(c, http.StatusConflict, apierror.CodeEventFull, err.Error())
	case errors.Is(err, model.ErrRegistrationClosed):
		apierror.Respond(c, http.StatusForbidden, apierror.CodeRegistrationClosed, err.Error())
	case errors.Is(err, eventModel.ErrForbidden):
		apierror.Forbidden(c, err.Error())
	case errors.Is(err, formModel.ErrInvalidResponses), errors.Is(err, model.ErrInvalidStatus):
		apierror.BadRequest(c, err.Error())
	default:
		h.logger.Errorw("registration request failed", "path", c.FullPath(), "error", err)
		apierror.Internal(c)
	}
}
