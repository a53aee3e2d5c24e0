// Package handler provides HTTP handlers for registration form endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/export"
	"github.com/festy23/eventhub/internal/form/model"
	"github.com/festy23/eventhub/internal/form/service"
)

// Handler handles HTTP requests for form endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new form handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Get handles GET /events/:id/form request.
// @Summary Get the registration form of an event
// @Tags Forms
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.Form
// @Failure 404 {object} apierror.ErrorResponse
// @Router /events/{id}/form [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Get(c *gin.Context) {
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	principal, _ := auth.CurrentUser(c)
	form, err := h.service.Get(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// Replace handles PUT /events/:id/form request.
// @Summary Replace the registration form of an event
// @Tags Forms
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body model.FormRequest true "Request"
// @Success 200 {object} model.Form
// @Failure 400 {object} apierror.ErrorResponse
// @Router /events/{id}/form [put] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Replace(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req model.FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid form definition")
		return
	}

	form, err := h.service.Replace(c.Request.Context(), principal, eventID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// Delete handles DELETE /events/:id/form request.
// @Summary Delete the registration form of an event
// @Tags Forms
// @Param id path string true "Event ID"
// @Success 204
// @Router /events/{id}/form [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Delete(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), principal, eventID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSubmissions handles GET /events/:id/submissions request.
// @Summary List form submissions
// @Tags Forms
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} model.SubmissionView
// @Router /events/{id}/submissions [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListSubmissions(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	submissions, err := h.service.ListSubmissions(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions, "total": len(submissions)})
}

// ExportSubmissions handles GET /events/:id/submissions/export request.
// @Summary Export form submissions
// @Tags Forms
// @Produce text/csv
// @Param id path string true "Event ID"
// @Param format query string false "csv or xlsx"
// @Success 200 {file} file
// @Router /events/{id}/submissions/export [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ExportSubmissions(c *gin.Context) {
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

	table, err := h.service.ExportSubmissions(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if err := export.Respond(c, table, format, "submissions"); err != nil {
		h.handleError(c, err)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, eventModel.ErrEventNotFound):
		apierror.NotFound(c, "event not found")
	case errors.Is(err, model.ErrFormNotFound):
		apierror.NotFound(c, "form not found")
	case errors.Is(err, eventModel.ErrForbidden):
		apierror.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrOptionsRequired):
		apierror.BadRequest(c, err.Error())
	default:
		h.logger.Errorw("form request failed", "path", c.FullPath(), "error", err)
		apierror.Internal(c)
	}
}
