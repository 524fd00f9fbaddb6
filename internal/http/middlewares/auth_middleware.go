package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sanad-platform/sanad-auth/internal/domain/user"
)

// Keep these interfaces small so tests can fake them easily.

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt        TokenVerifier
	revocation RevocationChecker
	users      UserLoader
}

func NewAuthMiddleware(jwt TokenVerifier, revocation RevocationChecker, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, revocation: revocation, users: users}
}

// RequireAuth gates a route on a live bearer token. Checks run in a
// fixed order: header shape, revocation, signature/expiry, then a user
// load so deleted accounts with stale tokens are kept out. The user is
// looked up on every request; role changes must take effect immediately.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortError(c, http.StatusUnauthorized, "unauthorized", "No token provided")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortError(c, http.StatusUnauthorized, "unauthorized", "No token provided")
			return
		}

		revoked, err := m.revocation.IsRevoked(c.Request.Context(), raw)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "internal_error", "Could not verify token")
			return
		}
		if revoked {
			abortError(c, http.StatusUnauthorized, "unauthorized", "Token has been invalidated")
			return
		}

		userID, err := m.jwt.Verify(raw)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		u, err := m.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			// covers deleted accounts holding otherwise-valid tokens
			abortError(c, http.StatusUnauthorized, "unauthorized", "User not found")
			return
		}

		c.Set(CtxIdentity, Identity{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
			Role:  u.Role,
		})
		// the raw token is kept for logout
		c.Set("auth.token", raw)

		c.Next()
	}
}

// Helpers so handlers don't need to know the magic keys.

func IdentityFromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func TokenFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get("auth.token")
	if !ok {
		return "", false
	}
	tok, ok := v.(string)
	return tok, ok && tok != ""
}
