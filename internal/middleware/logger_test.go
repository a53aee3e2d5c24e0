// Package middleware provides HTTP middleware functions.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/festy23/eventhub/internal/auth"
)

var loggedUser = uuid.MustParse("22222222-2222-2222-2222-222222222222")

func setupTestRouter(logger *zap.SugaredLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(logger))
	r.GET("/events/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	r.GET("/me", func(c *gin.Context) {
		auth.SetPrincipal(c, &auth.Principal{ID: loggedUser})
		c.Status(http.StatusNoContent)
	})
	r.GET("/error", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
	})
	r.GET("/server-error", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
	return r
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedLevel  zapcore.Level
	}{
		{
			name:           "successful request",
			path:           "/events/abc",
			expectedStatus: http.StatusOK,
			expectedLevel:  zapcore.InfoLevel,
		},
		{
			name:           "client error",
			path:           "/error",
			expectedStatus: http.StatusBadRequest,
			expectedLevel:  zapcore.WarnLevel,
		},
		{
			name:           "server error",
			path:           "/server-error",
			expectedStatus: http.StatusInternalServerError,
			expectedLevel:  zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			router := setupTestRouter(zap.New(core).Sugar())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.expectedLevel, logs.All()[0].Level)
		})
	}
}

func TestLogger_LogsRequestDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := setupTestRouter(zap.New(core).Sugar())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events/abc?page=2", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(RequestIDHeader, "req-7")
	router.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/events/abc", fields["path"])
	assert.Equal(t, "/events/:id", fields["route"])
	assert.Equal(t, "page=2", fields["query"])
	assert.Equal(t, "test-agent", fields["user_agent"])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Contains(t, fields, "size")
	assert.NotContains(t, fields, "user_id")
}

func TestLogger_LogsAuthenticatedUser(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := setupTestRouter(zap.New(core).Sugar())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, loggedUser.String(), logs.All()[0].ContextMap()["user_id"])
	assert.NotContains(t, logs.All()[0].ContextMap(), "size")
}
