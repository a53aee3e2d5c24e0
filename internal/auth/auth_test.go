package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profileModel "github.com/festy23/eventhub/internal/profile/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *Config {
	return &Config{
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		Issuer:    "eventhub-test",
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("from yaml file with env override", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "auth.yaml")
		content := "jwt_secret: " + testSecret + "\njwt_ttl: 2h\nadmin_name: Root\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("JWT_ISSUER", "from-env")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, testSecret, cfg.JWTSecret)
		assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
		assert.Equal(t, "from-env", cfg.Issuer)
		assert.Equal(t, "Root", cfg.AdminName)
		assert.False(t, cfg.HasBootstrapAdmin())
	})

	t.Run("env only", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("JWT_SECRET", testSecret)
		t.Setenv("ADMIN_EMAIL", "admin@example.com")
		t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
		assert.Equal(t, "eventhub", cfg.Issuer)
		assert.True(t, cfg.HasBootstrapAdmin())
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt_secret")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(_ *Config) {}, ""},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "jwt_secret"},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, "jwt_ttl"},
		{"empty issuer", func(c *Config) { c.Issuer = "" }, "jwt_issuer"},
		{"admin email without hash", func(c *Config) { c.AdminEmail = "a@b.c" }, "admin_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestTokenManager(t *testing.T) {
	manager := NewTokenManager(testConfig())
	userID := uuid.New()

	t.Run("issue and validate", func(t *testing.T) {
		token, expiresAt, err := manager.Issue(userID, "a@example.com", profileModel.RoleOrganizer)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

		claims, err := manager.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, "a@example.com", claims.Email)
		assert.Equal(t, profileModel.RoleOrganizer, claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		past := NewTokenManager(testConfig())
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.Issue(userID, "a@example.com", profileModel.RoleUser)
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.JWTSecret = strings.Repeat("x", 32)
		token, _, err := NewTokenManager(cfg).Issue(userID, "a@example.com", profileModel.RoleUser)
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := testConfig()
		cfg.Issuer = "someone-else"
		token, _, err := NewTokenManager(cfg).Issue(userID, "a@example.com", profileModel.RoleUser)
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm rejected", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "eventhub-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

type profileStub struct {
	profiles map[uuid.UUID]*profileModel.Profile
	err      error
}

func (s *profileStub) GetByID(_ context.Context, id uuid.UUID) (*profileModel.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, profileModel.ErrProfileNotFound
	}
	return p, nil
}

func stubProfile(email, role string, banned bool) *profileModel.Profile {
	p := &profileModel.Profile{Email: email, Role: role, IsBanned: banned}
	p.ID = uuid.New()
	return p
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := NewTokenManager(testConfig())

	user := stubProfile("u@example.com", profileModel.RoleUser, false)
	admin := stubProfile("a@example.com", profileModel.RoleAdmin, false)
	banned := stubProfile("b@example.com", profileModel.RoleUser, true)
	demoted := stubProfile("d@example.com", profileModel.RoleUser, false)
	promoted := stubProfile("p@example.com", profileModel.RoleAdmin, false)
	lookup := &profileStub{profiles: map[uuid.UUID]*profileModel.Profile{}}
	for _, p := range []*profileModel.Profile{user, admin, banned, demoted, promoted} {
		lookup.profiles[p.ID] = p
	}
	mw := NewMiddleware(manager, lookup)

	issue := func(id uuid.UUID, email, role string) string {
		token, _, err := manager.Issue(id, email, role)
		require.NoError(t, err)
		return token
	}
	userToken := issue(user.ID, user.Email, profileModel.RoleUser)
	adminToken := issue(admin.ID, admin.Email, profileModel.RoleAdmin)
	bannedToken := issue(banned.ID, banned.Email, profileModel.RoleUser)
	demotedToken := issue(demoted.ID, demoted.Email, profileModel.RoleAdmin)
	promotedToken := issue(promoted.ID, promoted.Email, profileModel.RoleUser)
	deletedToken := issue(uuid.New(), "gone@example.com", profileModel.RoleAdmin)

	router := gin.New()
	router.GET("/private", mw.RequireAuth(), func(c *gin.Context) {
		p, _ := CurrentUser(c)
		c.String(http.StatusOK, p.Email)
	})
	router.GET("/admin", mw.RequireAuth(), mw.RequireRole(profileModel.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/optional", mw.OptionalAuth(), func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.String(http.StatusOK, "user")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	do := func(path, token string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("missing token", func(t *testing.T) {
		w := do("/private", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("/private", "not-a-jwt").Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := do("/private", userToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u@example.com", w.Body.String())
	})

	t.Run("role forbidden", func(t *testing.T) {
		w := do("/admin", userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("role allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do("/admin", adminToken).Code)
	})

	t.Run("banned account rejected with valid token", func(t *testing.T) {
		w := do("/private", bannedToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("deleted account rejected with valid token", func(t *testing.T) {
		w := do("/private", deletedToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "account no longer exists")
	})

	t.Run("stored role overrides demoted token claim", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do("/admin", demotedToken).Code)
	})

	t.Run("stored role overrides promoted token claim", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do("/admin", promotedToken).Code)
	})

	t.Run("optional auth", func(t *testing.T) {
		assert.Equal(t, "anonymous", do("/optional", "").Body.String())
		assert.Equal(t, "anonymous", do("/optional", "bad").Body.String())
		assert.Equal(t, "anonymous", do("/optional", bannedToken).Body.String())
		assert.Equal(t, "user", do("/optional", userToken).Body.String())
	})
}

func TestMiddleware_LookupFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := NewTokenManager(testConfig())
	mw := NewMiddleware(manager, &profileStub{err: errors.New("connection refused")})

	token, _, err := manager.Issue(uuid.New(), "u@example.com", profileModel.RoleUser)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/private", mw.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPrincipal_Roles(t *testing.T) {
	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.IsAdmin())
	assert.False(t, nilPrincipal.IsStaff())

	assert.True(t, (&Principal{Role: profileModel.RoleAdmin}).IsAdmin())
	assert.True(t, (&Principal{Role: profileModel.RoleOrganizer}).IsStaff())
	assert.False(t, (&Principal{Role: profileModel.RoleUser}).IsStaff())
}
