// Package handler provides HTTP handlers for project endpoints.
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
	"github.com/festy23/eventhub/internal/pagination"
	"github.com/festy23/eventhub/internal/project/model"
	"github.com/festy23/eventhub/internal/project/service"
)

// Handler handles HTTP requests for project endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new project handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Submit handles POST /events/:id/projects request.
// @Summary Submit a project to an event
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body model.ProjectRequest true "Request"
// @Success 201 {object} model.ProjectResponse
// @Failure 403 {object} apierror.ErrorResponse "SUBMISSION_CLOSED or NOT_APPROVED"
// @Failure 409 {object} apierror.ErrorResponse "PROJECT_EXISTS"
// @Router /events/{id}/projects [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Submit(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req model.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid project")
		return
	}

	project, err := h.service.Submit(c.Request.Context(), principal, eventID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// Create handles POST /projects request.
// @Summary Create a standalone project
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body model.ProjectRequest true "Request"
// @Success 201 {object} model.ProjectResponse
// @Router /projects [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Create(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	var req model.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid project")
		return
	}

	project, err := h.service.Create(c.Request.Context(), principal, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// Get handles GET /projects/:id request.
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} model.ProjectResponse
// @Failure 404 {object} apierror.ErrorResponse
// @Router /projects/{id} [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Get(c *gin.Context) {
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Update handles PUT /projects/:id request.
// @Summary Update a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body model.ProjectRequest true "Request"
// @Success 200 {object} model.ProjectResponse
// @Failure 403 {object} apierror.ErrorResponse
// @Router /projects/{id} [put] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Update(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req model.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid project")
		return
	}

	project, err := h.service.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /projects/:id and DELETE /admin/projects/:id requests.
// @Summary Delete a project
// @Tags Projects
// @Param id path string true "Project ID"
// @Success 204
// @Router /projects/{id} [delete] //nolint:godot // Swagger annotation should not end with period
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

// ListMine handles GET /profiles/me/projects request.
// @Summary List the caller's projects
// @Tags Projects
// @Produce json
// @Success 200 {array} model.Project
// @Router /profiles/me/projects [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListMine(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	projects, err := h.service.ListMine(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": len(projects)})
}

// AddMember handles POST /projects/:id/members request.
// @Summary Add a project member by email
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body model.AddMemberRequest true "Request"
// @Success 201 {array} model.MemberView
// @Router /projects/{id}/members [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) AddMember(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req model.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "email is required")
		return
	}

	members, err := h.service.AddMember(c.Request.Context(), principal, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"members": members})
}

// RemoveMember handles DELETE /projects/:id/members/:userId request.
// @Summary Remove a project member
// @Tags Projects
// @Param id path string true "Project ID"
// @Param userId path string true "User ID"
// @Success 204
// @Router /projects/{id}/members/{userId} [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) RemoveMember(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := apierror.ParamUUID(c, "userId")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), principal, id, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListByEvent handles GET /events/:id/projects request.
// @Summary List an event's submissions
// @Tags Projects
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} model.SubmissionRow
// @Router /events/{id}/projects [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListByEvent(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	rows, err := h.service.ListByEvent(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": rows, "total": len(rows)})
}

// ExportByEvent handles GET /events/:id/projects/export request.
// @Summary Export an event's submissions
// @Tags Projects
// @Produce text/csv
// @Param id path string true "Event ID"
// @Param format query string false "csv or xlsx"
// @Success 200 {file} file
// @Router /events/{id}/projects/export [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ExportByEvent(c *gin.Context) {
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

	table, err := h.service.ExportByEvent(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if err := export.Respond(c, table, format, "projects"); err != nil {
		h.handleError(c, err)
	}
}

// List handles GET /admin/projects request.
// @Summary List every project
// @Tags Admin
// @Produce json
// @Param event_id query string false "Event ID"
// @Param q query string false "Title search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.ListResponse
// @Router /admin/projects [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) List(c *gin.Context) {
	filter := model.ListFilter{
		EventID: c.Query("event_id"),
		Query:   c.Query("q"),
		Page:    pagination.FromQuery(c),
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, eventModel.ErrEventNotFound):
		apierror.NotFound(c, "event not found")
	case errors.Is(err, model.ErrProjectNotFound), errors.Is(err, model.ErrMemberNotFound),
		errors.Is(err, model.ErrUserNotFound):
		apierror.NotFound(c, err.Error())
	case errors.Is(err, model.ErrSubmissionClosed):
		apierror.Respond(c, http.StatusForbidden, apierror.CodeSubmissionClosed, err.Error())
	case errors.Is(err, model.ErrNotApproved):
		apierror.Respond(c, http.StatusForbidden, apierror.CodeNotApproved, err.Error())
	case errors.Is(err, model.ErrNotOwner), errors.Is(err, eventModel.ErrForbidden):
		apierror.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrProjectExists):
		apierror.Respond(c, http.StatusConflict, apierror.CodeProjectExists, err.Error())
	case errors.Is(err, model.ErrMemberExists), errors.Is(err, model.ErrLastOwner):
		apierror.Respond(c, http.StatusConflict, apierror.CodeConflict, err.Error())
	case errors.Is(err, model.ErrInvalidRole):
		apierror.BadRequest(c, err.Error())
	default:
		h.logger.Errorw("project request failed", "path", c.FullPath(), "error", err)
		apierror.Internal(c)
	}
}
