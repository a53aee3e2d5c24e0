// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
	"github.com/festy23/eventhub/internal/auth"
	eventModel "github.com/festy23/eventhub/internal/event/model"
	"github.com/festy23/eventhub/internal/realtime"
	teamModel "github.com/festy23/eventhub/internal/team/model"
	"github.com/festy23/eventhub/internal/team/service"
)

// HeartbeatInterval is how often an idle stream sends a ping.
const HeartbeatInterval = 25 * time.Second

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service   service.Service
	logger    *zap.SugaredLogger
	heartbeat time.Duration
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger, heartbeat: HeartbeatInterval}
}

// Create handles POST /events/:id/teams request.
// @Summary Create a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body teamModel.CreateTeamRequest true "Request"
// @Success 201 {object} teamModel.TeamResponse
// @Failure 403 {object} apierror.ErrorResponse "NOT_APPROVED"
// @Failure 409 {object} apierror.ErrorResponse "ALREADY_IN_TEAM or CONFLICT"
// @Router /events/{id}/teams [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Create(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req teamModel.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "name is required")
		return
	}

	team, err := h.service.Create(c.Request.Context(), principal, eventID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// Join handles POST /events/:id/teams/join request.
// @Summary Join a team by referral code
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body teamModel.JoinTeamRequest true "Request"
// @Success 200 {object} teamModel.TeamResponse
// @Failure 404 {object} apierror.ErrorResponse "INVALID_REFERRAL_CODE"
// @Failure 409 {object} apierror.ErrorResponse "TEAM_FULL or ALREADY_IN_TEAM"
// @Router /events/{id}/teams/join [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Join(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req teamModel.JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "referral_code is required")
		return
	}

	team, err := h.service.Join(c.Request.Context(), principal, eventID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// GetMine handles GET /events/:id/teams/mine request.
// @Summary Get the caller's team
// @Tags Teams
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} teamModel.TeamResponse
// @Failure 404 {object} apierror.ErrorResponse
// @Router /events/{id}/teams/mine [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetMine(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	team, err := h.service.GetMine(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// Leave handles DELETE /events/:id/teams/mine request.
// @Summary Leave the caller's team
// @Tags Teams
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} teamModel.LeaveResult
// @Router /events/{id}/teams/mine [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Leave(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Leave(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemoveMember handles DELETE /events/:id/teams/mine/members/:userId request.
// @Summary Remove a member from the caller's team
// @Tags Teams
// @Param id path string true "Event ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 403 {object} apierror.ErrorResponse
// @Router /events/{id}/teams/mine/members/{userId} [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) RemoveMember(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := apierror.ParamUUID(c, "userId")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), principal, eventID, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReferralQR handles GET /events/:id/teams/mine/qr request.
// @Summary Referral code QR image
// @Tags Teams
// @Produce png
// @Param id path string true "Event ID"
// @Success 200 {file} file
// @Router /events/{id}/teams/mine/qr [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ReferralQR(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	png, err := h.service.ReferralQR(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Stream handles GET /events/:id/teams/mine/stream request.
// @Summary Membership change stream
// @Tags Teams
// @Produce text/event-stream
// @Param id path string true "Event ID"
// @Success 200 {string} string "Server-Sent Events"
// @Router /events/{id}/teams/mine/stream [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Stream(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	messages, cancel, err := h.service.Subscribe(ctx, principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer cancel()

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, open := <-messages:
			if !open {
				return false
			}
			c.SSEvent(msg.Type, msg)
			return !endsSubscription(msg, principal.ID)
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}

// endsSubscription reports whether msg removes subscriber from the team's stream.
func endsSubscription(msg realtime.Message, subscriber uuid.UUID) bool {
	switch msg.Type {
	case teamModel.EventTeamDeleted:
		return true
	case teamModel.EventMemberLeft:
		userID, _ := msg.Payload["user_id"].(string)
		return userID == subscriber.String()
	}
	return false
}

// ListByEvent handles GET /events/:id/teams request.
// @Summary List every team of an event
// @Tags Teams
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} teamModel.TeamSummary
// @Failure 403 {object} apierror.ErrorResponse
// @Router /events/{id}/teams [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListByEvent(c *gin.Context) {
	principal, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	eventID, ok := apierror.ParamUUID(c, "id")
	if !ok {
		return
	}

	teams, err := h.service.ListByEvent(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams, "total": len(teams)})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, eventModel.ErrEventNotFound):
		apierror.NotFound(c, "event not found")
	case errors.Is(err, teamModel.ErrTeamNotFound), errors.Is(err, teamModel.ErrNotInTeam):
		apierror.NotFound(c, err.Error())
	case errors.Is(err, teamModel.ErrMemberNotFound):
		apierror.NotFound(c, err.Error())
	case errors.Is(err, teamModel.ErrInvalidReferralCode):
		apierror.Respond(c, http.StatusNotFound, apierror.CodeInvalidReferralCode, err.Error())
	case errors.Is(err, teamModel.ErrNotApproved):
		apierror.Respond(c, http.StatusForbidden, apierror.CodeNotApproved, err.Error())
	case errors.Is(err, eventModel.ErrForbidden), errors.Is(err, teamModel.ErrNotLeader):
		apierror.Forbidden(c, err.Error())
	case errors.Is(err, teamModel.ErrTeamFull):
		apierror.Respond(c, http.StatusConflict, apierror.CodeTeamFull, err.Error())
	case errors.Is(err, teamModel.ErrAlreadyInTeam):
		apierror.Respond(c, http.StatusConflict, apierror.CodeAlreadyInTeam, err.Error())
	case errors.Is(err, teamModel.ErrTeamNameTaken):
		apierror.Respond(c, http.StatusConflict, apierror.CodeConflict, err.Error())
	case errors.Is(err, teamModel.ErrInvalidTeamName), errors.Is(err, teamModel.ErrCannotRemoveSelf):
		apierror.BadRequest(c, err.Error())
	default:
		h.logger.Errorw("team request failed", "path", c.FullPath(), "error", err)
		apierror.Internal(c)
	}
}
