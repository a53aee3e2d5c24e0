// Package middleware provides HTTP middleware functions.
package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/apierror"
)

// Recovery returns a middleware that turns panics into the INTERNAL_ERROR envelope.
// Responses that already started (SSE streams) are only aborted.
func Recovery(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []interface{}{
				"error", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"request_id", GetRequestID(c),
				"stack", string(debug.Stack()),
			}
			if id := principalID(c); id != "" {
				fields = append(fields, "user_id", id)
			}
			logger.Errorw("panic recovered", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			apierror.Internal(c)
		}()

		c.Next()
	}
}
