// Package handler provides HTTP handlers for event endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
	"github.com/festy23/eventhub/internal/auth"
	"github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/event/service"
	"github.com/festy23/eventhub/internal/pagination"
	"github.com/festy23/eventhub/internal/storage"
)

// Handler handles HTTP requests for event endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new event handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// List handles GET /events request.
// @Summary List events
// @Tags Events
// @Produce json
// @Param type query string false "Event type"
// @Param upcoming query bool false "Only events that have not ended"
// @Param q query string false "Title or location search"
// @Param all query bool false "Include drafts (staff only)"
// @Success 200 {object} model.ListResponse
// @Router /events [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) List(c *gin.Context) {
	upcoming, _ := strconv.ParseBool(c.Query("upcoming"))
	all, _ := strconv.ParseBool(c.Query("all"))

	filter := model.ListFilter{
		EventType:     c.Query("type"),
		Query:         c.Query("q"),
		UpcomingOnly:  upcoming,
		IncludeHidden: all,
		OrganizerID:   c.Query("organizer_id"),
		Page:          pagination.FromQuery(c),
	}

	principal, _ := auth.CurrentUser(c)
	resp, err := h.service.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /events/:id request.
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 404 {object} apierror.ErrorResponse
// @Router /events/{id} [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Get(c *gin.Context) {
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	principal, _ := auth.CurrentUser(c)
	event, err := h.service.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Create handles POST /events request.
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Param request body model.EventRequest true "Request"
// @Success 201 {object} model.Event
// @Failure 400 {object} apierror.ErrorResponse
// @Failure 403 {object} apierror.ErrorResponse
// @Router /events [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Create(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	var req model.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debugw("Create invalid body", "error", err)
		apierror.BadRequest(c, "invalid request body")
		return
	}

	event, err := h.service.Create(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Update handles PUT /events/:id request.
// @Summary Update an event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body model.EventRequest true "Request"
// @Success 200 {object} model.Event
// @Router /events/{id} [put] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Update(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req model.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid request body")
		return
	}

	event, err := h.service.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /events/:id request.
// @Summary Delete an event
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204
// @Router /events/{id} [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Delete(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadBanner handles POST /events/:id/banner request.
// @Summary Upload an event banner
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event ID"
// @Param file formData file true "Image"
// @Success 200 {object} model.Event
// @Router /events/{id}/banner [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) UploadBanner(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		apierror.BadRequest(c, "file is required")
		return
	}

	event, err := h.service.UploadBanner(c.Request.Context(), principal, id, fh)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// SubmissionWindow handles GET /events/:id/submission-window request.
// @Summary Project submission window
// @Tags Projects
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} model.SubmissionWindowResponse
// @Router /events/{id}/submission-window [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) SubmissionWindow(c *gin.Context) {
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.SubmissionWindow(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrEventNotFound):
		apierror.NotFound(c, "event not found")
	case errors.Is(err, model.ErrForbidden):
		apierror.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrInvalidDates),
		errors.Is(err, model.ErrInvalidRegistrationWindow),
		errors.Is(err, model.ErrInvalidSubmissionWindow):
		apierror.BadRequest(c, err.Error())
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrTooLarge):
		apierror.BadRequest(c, err.Error())
	default:
		h.logger.Errorw("event request failed", "path", c.FullPath(), "error", err)
		apierror.Internal(c)
	}
}
