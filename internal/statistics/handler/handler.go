// Package handler provides HTTP handlers for statistics endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/statistics/service"
)

// Handler handles HTTP requests for statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Platform handles GET /admin/statistics request.
// @Summary Get platform totals
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.PlatformStatistics
// @Failure 500 {object} apierror.ErrorResponse
// @Router /admin/statistics [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Platform(c *gin.Context) {
	stats, err := h.service.Platform(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error getting platform statistics", "error", err)
		apierror.Internal(c)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ForEvent handles GET /events/:id/statistics request.
// @Summary Get statistics for an event
// @Tags Statistics
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.EventStatistics
// @Failure 403 {object} apierror.ErrorResponse
// @Failure 404 {object} apierror.ErrorResponse
// @Router /events/{id}/statistics [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ForEvent(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.service.ForEvent(c.Request.Context(), principal, eventID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, stats)
	case errors.Is(err, eventModel.ErrEventNotFound):
		apierror.NotFound(c, "event not found")
	case errors.Is(err, eventModel.ErrForbidden):
		apierror.Forbidden(c, err.Error())
	default:
		h.logger.Errorw("error getting event statistics", "event_id", eventID, "error", err)
		apierror.Internal(c)
	}
}
