package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sanad-platform/sanad-auth/internal/http/middlewares"
)

// mounts the role gate behind a stub that optionally injects an identity
func roleRouter(identity *middlewares.Identity, roles ...string) *gin.Engine {
	mw := middlewares.NewAuthMiddleware(nil, nil, nil)

	r := gin.New()

	inject := func(c *gin.Context) {
		if identity != nil {
			c.Set(middlewares.CtxIdentity, *identity)
		}
		c.Next()
	}

	r.GET("/admin", inject, mw.RequireRole(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name        string
		identity    *middlewares.Identity
		roles       []string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "no identity",
			identity:    nil,
			roles:       []string{"admin"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "User not authenticated",
		},
		{
			name:        "identity without role",
			identity:    &middlewares.Identity{ID: "u-1"},
			roles:       []string{"admin"},
			wantStatus:  http.StatusForbidden,
			wantMessage: "User role not found",
		},
		{
			name:        "wrong role",
			identity:    &middlewares.Identity{ID: "u-1", Role: "parent"},
			roles:       []string{"admin", "professional"},
			wantStatus:  http.StatusForbidden,
			wantMessage: "Access denied. Required roles: admin, professional",
		},
		{
			name:       "matching role",
			identity:   &middlewares.Identity{ID: "u-1", Role: "admin"},
			roles:      []string{"admin"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "matches any of several",
			identity:   &middlewares.Identity{ID: "u-1", Role: "professional"},
			roles:      []string{"admin", "professional"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := roleRouter(tc.identity, tc.roles...)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantMessage != "" && !strings.Contains(w.Body.String(), tc.wantMessage) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tc.wantMessage)
			}
		})
	}
}
