// Package handler provides the HTTP handler for the send-email endpoint.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
	"github.com/festy23/eventhub/internal/mail"
)

// Sender sends single and bulk emails.
type Sender interface {
	SendSingle(ctx context.Context, req *mail.SendRequest) (*mail.SendResponse, error)
	SendBulk(ctx context.Context, req *mail.SendRequest) (*mail.BulkResponse, error)
}

// Handler handles HTTP requests for email endpoints.
type Handler struct {
	sender Sender
	logger *zap.SugaredLogger
}

// New creates a new mail handler instance.
func New(sender Sender, logger *zap.SugaredLogger) *Handler {
	return &Handler{sender: sender, logger: logger}
}

// SendEmail handles POST /functions/send-email request.
// @Summary Send a single or bulk email
// @Tags Email
// @Accept json
// @Produce json
// @Param request body mail.SendRequest true "Request"
// @Success 200 {object} mail.BulkResponse
// @Failure 400 {object} apierror.ErrorResponse
// @Failure 502 {object} apierror.ErrorResponse
// @Router /functions/send-email [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) SendEmail(c *gin.Context) {
	var req mail.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, "invalid request body")
		return
	}

	if req.IsBulk() {
		resp, err := h.sender.SendBulk(c.Request.Context(), &req)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.sender.SendSingle(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mail.ErrInvalidRequest), errors.Is(err, mail.ErrTooManyRecipients):
		apierror.BadRequest(c, err.Error())
	case errors.Is(err, mail.ErrProviderUnavailable):
		apierror.Respond(c, http.StatusBadGateway, apierror.CodeInternal, "email provider rejected the request")
	default:
		h.logger.Errorw("send-email failed", "error", err)
		apierror.Internal(c)
	}
}
