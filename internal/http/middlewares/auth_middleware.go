package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gallerie/storefront/internal/domain/user"
)

// Keep this small interface so tests can fake it easily.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (user.User, error)
	IsAdmin(u user.User) bool
}

type Auth struct {
	sessions SessionResolver
}

func NewAuth(sessions SessionResolver) *Auth {
	return &Auth{sessions: sessions}
}

// RequireAuth resolves the bearer token against the session store and
// stashes the user on the context. A missing or invalid token is a
// 401, distinct from a missing resource.
func (m *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid session token")
			return
		}

		u, err := m.sessions.Resolve(c.Request.Context(), raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired session token")
			return
		}

		c.Set(CtxUser, u)
		c.Set(CtxIsAdmin, m.sessions.IsAdmin(u))
		c.Set(CtxToken, raw)

		c.Next()
	}
}

// RequireAdmin gates a route to administrators. Must run after
// RequireAuth.
func (m *Auth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}

// Helpers so handlers don't need to know the magic keys.

func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func IsAdmin(c *gin.Context) bool {
	v, ok := c.Get(CtxIsAdmin)
	if !ok {
		return false
	}
	admin, ok := v.(bool)
	return ok && admin
}

func BearerToken(c *gin.Context) string {
	v, ok := c.Get(CtxToken)
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}
