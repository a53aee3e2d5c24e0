package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/eventhub/internal/auth"
	eventRepository "github.com/festy23/eventhub/internal/event/repository"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
	profileRepository "github.com/festy23/eventhub/internal/profile/repository"
	registrationModel "github.com/festy23/eventhub/internal/registration/model"
	"github.com/festy23/eventhub/internal/statistics/handler"
	"github.com/festy23/eventhub/internal/statistics/model"
	"github.com/festy23/eventhub/internal/statistics/repository"
	"github.com/festy23/eventhub/internal/statistics/service"
	"github.com/festy23/eventhub/internal/testutil"
)

type integration struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.TokenManager
}

func setupIntegration(t *testing.T) *integration {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	logger := zap.NewNop().Sugar()

	svc := service.New(repository.New(db, logger), eventRepository.New(db, logger), logger)
	tokens := auth.NewTokenManager(&auth.Config{
		JWTSecret: "integration-secret-integration-secret",
		TokenTTL:  time.Hour,
		Issuer:    "eventhub-test",
	})

	r := gin.New()
	RegisterRoutes(r.Group("/api"), handler.New(svc, logger), auth.NewMiddleware(tokens, profileRepository.New(db, logger)))
	return &integration{db: db, router: r, tokens: tokens}
}

func (it *integration) get(t *testing.T, path string, p *profileModel.Profile) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if p != nil {
		token, _, err := it.tokens.Issue(p.ID, p.Email, p.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	it.router.ServeHTTP(w, req)
	return w
}

func TestIntegration_Statistics(t *testing.T) {
	it := setupIntegration(t)

	admin := testutil.CreateProfile(t, it.db, "admin@example.com", profileModel.RoleAdmin)
	org := testutil.CreateProfile(t, it.db, "org@example.com", profileModel.RoleOrganizer)
	alice := testutil.CreateProfile(t, it.db, "alice@example.com", profileModel.RoleUser)
	event := testutil.CreateEvent(t, it.db, org.ID)
	testutil.CreateRegistration(t, it.db, event.ID, alice.ID, registrationModel.StatusPending)
	testutil.CreateTeam(t, it.db, event.ID, alice.ID, "Rockets")

	eventPath := "/api/events/" + event.ID.String() + "/statistics"

	t.Run("admin platform totals", func(t *testing.T) {
		w := it.get(t, "/api/admin/statistics", admin)
		require.Equal(t, http.StatusOK, w.Code)

		var stats model.PlatformStatistics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, int64(3), stats.Users)
		assert.Equal(t, int64(1), stats.Events)
		assert.Equal(t, int64(1), stats.TotalRegistrations)
		assert.Equal(t, int64(1), stats.Teams)
	})

	t.Run("platform totals require admin", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, it.get(t, "/api/admin/statistics", org).Code)
		assert.Equal(t, http.StatusUnauthorized, it.get(t, "/api/admin/statistics", nil).Code)
	})

	t.Run("organizer event breakdown", func(t *testing.T) {
		w := it.get(t, eventPath, org)
		require.Equal(t, http.StatusOK, w.Code)

		var stats model.EventStatistics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, event.ID, stats.EventID)
		assert.Equal(t, int64(1), stats.Registrations[0].Count)
		assert.Equal(t, []model.SourceCount{{Source: model.DirectSource, Count: 1}}, stats.UTMSources)
		assert.InDelta(t, 1.0, stats.AverageTeamSize, 0.001)
	})

	t.Run("participant is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, it.get(t, eventPath, alice).Code)
	})
}
