package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/huggodev/vntl-api/internal/handler"
	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository"
	"github.com/huggodev/vntl-api/pkg/auth"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

const identityKey = "identity"

const (
	userCacheTTL     = 30 * time.Second
	userCacheCleanup = time.Minute
)

type AuthMiddleware struct {
	tokens *auth.TokenService
	users  repository.UserRepository
	cache  *cache.Cache
}

func NewAuthMiddleware(tokens *auth.TokenService, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		cache:  cache.New(userCacheTTL, userCacheCleanup),
	}
}

// Authenticate binds the caller's identity to the request context. A missing
// or invalid bearer token leaves the request anonymous and passes it through;
// role enforcement happens in RequireRoles. Once bound, the identity does not
// change for the rest of the request.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			c.Next()
			return
		}

		identity, ok := m.resolveIdentity(c, claims)
		if !ok {
			c.Next()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// resolveIdentity cross-checks the token role against the live user record:
// the store's role wins when the store answers, a deleted user invalidates
// the token, and a store error falls back to the role embedded in the token.
func (m *AuthMiddleware) resolveIdentity(c *gin.Context, claims *auth.Claims) (model.Identity, bool) {
	if cached, found := m.cache.Get(claims.Username); found {
		user := cached.(*model.User)
		return model.Identity{Username: user.Username, Role: user.Role}, true
	}

	user, err := m.users.GetByUsername(c.Request.Context(), claims.Username)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return model.Identity{}, false
		}
		return model.Identity{Username: claims.Username, Role: claims.Role}, true
	}

	m.cache.Set(user.Username, user, cache.DefaultExpiration)
	return model.Identity{Username: user.Username, Role: user.Role}, true
}

// RequireRoles rejects anonymous requests with 401 and authenticated requests
// whose role is outside the allowed set with 403.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
	}
}

// IdentityFrom returns the identity bound to the request, if any.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}
