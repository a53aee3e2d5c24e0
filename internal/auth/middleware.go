package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/festy23/eventhub/internal/apierror"
	profileModel "github.com/festy23/eventhub/internal/profile/model"
)

const principalKey = "auth_principal"

// Principal is the authenticated caller.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// IsAdmin reports whether the caller is an administrator.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == profileModel.RoleAdmin
}

// IsStaff reports whether the caller is an organizer or administrator.
func (p *Principal) IsStaff() bool {
	return p != nil && (p.Role == profileModel.RoleOrganizer || p.Role == profileModel.RoleAdmin)
}

// ProfileLookup loads the stored account behind a token subject.
// It returns profileModel.ErrProfileNotFound for deleted accounts.
type ProfileLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profileModel.Profile, error)
}

var (
	errNoToken       = errors.New("no bearer token")
	errLookupFailed  = errors.New("account lookup failed")
	errAccountGone   = errors.New("account no longer exists")
	errAccountBanned = errors.New("account is banned")
)

// Middleware authenticates requests with bearer tokens. Every request re-reads
// the account so bans, role changes and deletions apply to tokens already issued.
type Middleware struct {
	tokens   *TokenManager
	profiles ProfileLookup
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(tokens *TokenManager, profiles ProfileLookup) *Middleware {
	return &Middleware{tokens: tokens, profiles: profiles}
}

// RequireAuth rejects requests without a valid bearer token for a live account.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.authenticate(c)
		switch {
		case err == nil:
			c.Set(principalKey, principal)
			c.Next()
		case errors.Is(err, errAccountBanned):
			apierror.Forbidden(c, err.Error())
		case errors.Is(err, errLookupFailed):
			apierror.Internal(c)
		case errors.Is(err, errAccountGone):
			apierror.Unauthorized(c, err.Error())
		default:
			apierror.Unauthorized(c, "valid bearer token required")
		}
	}
}

// OptionalAuth sets the principal when a valid token for a live account is present.
func (m *Middleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, err := m.authenticate(c); err == nil {
			c.Set(principalKey, principal)
		}
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
// It must run after RequireAuth.
func (m *Middleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentUser(c)
		if !ok {
			apierror.Unauthorized(c, "authentication required")
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		apierror.Forbidden(c, "insufficient role")
	}
}

// authenticate validates the token and takes email and role from the stored profile.
func (m *Middleware) authenticate(c *gin.Context) (*Principal, error) {
	header := c.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return nil, errNoToken
	}

	claims, err := m.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	profile, err := m.profiles.GetByID(c.Request.Context(), id)
	switch {
	case errors.Is(err, profileModel.ErrProfileNotFound):
		return nil, errAccountGone
	case err != nil:
		return nil, errors.Join(errLookupFailed, err)
	case profile.IsBanned:
		return nil, errAccountBanned
	}

	return &Principal{
		ID:    profile.ID,
		Email: profile.Email,
		Role:  profile.Role,
	}, nil
}

// CurrentUser returns the principal set by RequireAuth or OptionalAuth.
func CurrentUser(c *gin.Context) (*Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*Principal)
	return principal, ok
}

// SetPrincipal stores a principal on the context.
func SetPrincipal(c *gin.Context, principal *Principal) {
	c.Set(principalKey, principal)
}

// RequirePrincipal returns the current principal, writing a 401 when there is none.
func RequirePrincipal(c *gin.Context) (*Principal, bool) {
	principal, ok := CurrentUser(c)
	if !ok {
		apierror.Unauthorized(c, "authentication required")
		return nil, false
	}
	return principal, true
}
