package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func check(handler *Handler) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.Check)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	return w
}

type fakeComponent struct {
	closed atomic.Bool
}

func (f *fakeComponent) Closed() bool { return f.closed.Load() }

func TestHandler_Check(t *testing.T) {
	logger := zap.NewNop().Sugar()

	t.Run("healthy database", func(t *testing.T) {
		w := check(New(logger, DatabaseDependency(setupTestDB(t))))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		w := check(New(logger, DatabaseDependency(db)))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unhealthy"}`, w.Body.String())
	})

	t.Run("nil database", func(t *testing.T) {
		w := check(New(logger, DatabaseDependency(nil)))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("shutting down", func(t *testing.T) {
		component := &fakeComponent{}
		handler := New(logger, DatabaseDependency(setupTestDB(t)), ShutdownDependency("realtime", component))

		assert.Equal(t, http.StatusOK, check(handler).Code)

		component.closed.Store(true)
		assert.Equal(t, http.StatusServiceUnavailable, check(handler).Code)
	})

	t.Run("stops at first failing dependency", func(t *testing.T) {
		var calls int
		failing := Dependency{Name: "first", Check: func(context.Context) error { return errors.New("down") }}
		counting := Dependency{Name: "second", Check: func(context.Context) error { calls++; return nil }}

		w := check(New(logger, failing, counting))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Zero(t, calls)
	})

	t.Run("check receives a deadline", func(t *testing.T) {
		var hasDeadline bool
		dep := Dependency{Name: "deadline", Check: func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}}

		assert.Equal(t, http.StatusOK, check(New(logger, dep)).Code)
		assert.True(t, hasDeadline)
	})

	t.Run("no dependencies", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, check(New(logger)).Code)
	})
}

func TestHandler_ConcurrentChecks(t *testing.T) {
	handler := New(zap.NewNop().Sugar(), DatabaseDependency(setupTestDB(t)))
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.Check)

	results := make(chan int, 10)
	for i := 0; i < 10; i++ {
		go func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/health", nil)
			router.ServeHTTP(w, req)
			results <- w.Code
		}()
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, <-results)
	}
}
