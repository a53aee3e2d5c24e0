// Package health provides health check endpoint handler.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/database/database"
)

// CheckTimeout bounds all dependency checks of one request.
const CheckTimeout = 5 * time.Second

// ErrShuttingDown is reported once the application started shutting down.
var ErrShuttingDown = errors.New("shutting down")

// Dependency is one named readiness check.
type Dependency struct {
	Name  string
	Check func(ctx context.Context) error
}

// DatabaseDependency pings the database.
func DatabaseDependency(db *gorm.DB) Dependency {
	return Dependency{
		Name: "database",
		Check: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}
}

// ShutdownDependency fails once component reports it is closed, so load balancers drain the instance.
func ShutdownDependency(name string, component interface{ Closed() bool }) Dependency {
	return Dependency{
		Name: name,
		Check: func(context.Context) error {
			if component.Closed() {
				return ErrShuttingDown
			}
			return nil
		},
	}
}

// Handler handles health check requests.
type Handler struct {
	deps   []Dependency
	logger *zap.SugaredLogger
}

// New creates a new health handler instance checking deps in order.
func New(logger *zap.SugaredLogger, deps ...Dependency) *Handler {
	return &Handler{
		deps:   deps,
		logger: logger,
	}
}

// Response represents health check response.
type Response struct {
	Status string `json:"status"`
}

// Check handles GET /health request.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), CheckTimeout)
	defer cancel()

	for _, dep := range h.deps {
		if err := dep.Check(ctx); err != nil {
			h.logger.Warnw("health check failed", "dependency", dep.Name, "error", err)
			c.JSON(http.StatusServiceUnavailable, Response{Status: "unhealthy"})
			return
		}
	}

	c.JSON(http.StatusOK, Response{Status: "ok"})
}
