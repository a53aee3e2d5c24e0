// Package apierror renders the uniform error envelope used by every handler.
package apierror

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Error codes returned in the envelope.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyRegistered   = "ALREADY_REGISTERED"
	CodeRegistrationClosed  = "REGISTRATION_CLOSED"
	CodeEventFull           = "EVENT_FULL"
	CodeTeamFull            = "TEAM_FULL"
	CodeAlreadyInTeam       = "ALREADY_IN_TEAM"
	CodeInvalidReferralCode = "INVALID_REFERRAL_CODE"
	CodeNotApproved         = "NOT_APPROVED"
	CodeSubmissionClosed    = "SUBMISSION_CLOSED"
	CodeProjectExists       = "PROJECT_EXISTS"
	CodeConflict            = "CONFLICT"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse represents the error response structure.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// New builds an ErrorResponse.
func New(code, message string) ErrorResponse {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	return resp
}

// Respond writes the error envelope and aborts the chain.
func Respond(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, New(code, message))
}

// BadRequest writes a 400 INVALID_REQUEST.
func BadRequest(c *gin.Context, message string) {
	Respond(c, http.StatusBadRequest, CodeInvalidRequest, message)
}

// NotFound writes a 404 NOT_FOUND.
func NotFound(c *gin.Context, message string) {
	Respond(c, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized writes a 401 UNAUTHORIZED.
func Unauthorized(c *gin.Context, message string) {
	Respond(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden writes a 403 FORBIDDEN.
func Forbidden(c *gin.Context, message string) {
	Respond(c, http.StatusForbidden, CodeForbidden, message)
}

// Internal writes a 500 INTERNAL_ERROR.
func Internal(c *gin.Context) {
	Respond(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}

// ParamUUID parses a path parameter as a UUID, writing a 400 when it is malformed.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		BadRequest(c, name+" must be a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}
