package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository/memory"
	"github.com/huggodev/vntl-api/pkg/auth"
)

func newGate(t *testing.T) (*AuthMiddleware, *auth.TokenService, *memory.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := memory.NewUserRepository()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewAuthMiddleware(tokens, users), tokens, users
}

func addUser(t *testing.T, users *memory.UserRepository, username string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Base:     model.Base{ID: uuid.New()},
		Username: username,
		Role:     role,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func protectedRouter(gate *AuthMiddleware, roles ...model.Role) *gin.Engine {
	r := gin.New()
	r.Use(gate.Authenticate())
	r.GET("/protected", gate.RequireRoles(roles...), func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"role": identity.Role})
	})
	return r
}

func do(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRolesNoToken(t *testing.T) {
	gate, _, _ := newGate(t)
	r := protectedRouter(gate, model.RoleAdmin)

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesValidToken(t *testing.T) {
	gate, tokens, users := newGate(t)
	user := addUser(t, users, "ana", model.RoleAdmin)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	r := protectedRouter(gate, model.RoleAdmin)
	w := do(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesWrongRole(t *testing.T) {
	gate, tokens, users := newGate(t)
	user := addUser(t, users, "ana", model.RoleTechnician)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	r := protectedRouter(gate, model.RoleAdmin, model.RoleManager)
	w := do(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExpiredTokenIsAnonymous(t *testing.T) {
	gate, _, users := newGate(t)
	user := addUser(t, users, "ana", model.RoleAdmin)

	past := auth.NewTokenService("test-secret", -time.Hour)
	token, err := past.Issue(user)
	require.NoError(t, err)

	r := protectedRouter(gate, model.RoleAdmin)
	w := do(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGarbageTokenIsAnonymous(t *testing.T) {
	gate, _, users := newGate(t)
	addUser(t, users, "ana", model.RoleAdmin)

	r := protectedRouter(gate, model.RoleAdmin)
	w := do(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeletedUserIsAnonymous(t *testing.T) {
	gate, tokens, _ := newGate(t)

	// Token for a user the store no longer knows.
	token, err := tokens.Issue(&model.User{Username: "ghost", Role: model.RoleAdmin})
	require.NoError(t, err)

	r := protectedRouter(gate, model.RoleAdmin)
	w := do(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLiveRoleWinsOverTokenRole(t *testing.T) {
	gate, tokens, users := newGate(t)
	addUser(t, users, "ana", model.RoleTechnician)

	// Token minted while the user was still an admin.
	token, err := tokens.Issue(&model.User{Username: "ana", Role: model.RoleAdmin})
	require.NoError(t, err)

	r := protectedRouter(gate, model.RoleAdmin)
	w := do(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStoreErrorFallsBackToTokenRole(t *testing.T) {
	gate, tokens, users := newGate(t)
	users.Err = errors.New("store down")

	token, err := tokens.Issue(&model.User{Username: "ana", Role: model.RoleAdmin})
	require.NoError(t, err)

	r := protectedRouter(gate, model.RoleAdmin)
	w := do(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicRouteIgnoresBadToken(t *testing.T) {
	gate, _, _ := newGate(t)

	r := gin.New()
	r.Use(gate.Authenticate())
	r.GET("/public", func(c *gin.Context) {
		_, authenticated := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
