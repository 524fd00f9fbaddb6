package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRole passes requests whose authenticated identity carries one
// of the given roles. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)

		if !ok {
			abortError(c, http.StatusUnauthorized, "unauthorized", "User not authenticated")
			return
		}

		if identity.Role == "" {
			abortError(c, http.StatusForbidden, "forbidden", "User role not found")
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		abortError(c, http.StatusForbidden, "forbidden",
			"Access denied. Required roles: "+strings.Join(roles, ", "))
	}
}
