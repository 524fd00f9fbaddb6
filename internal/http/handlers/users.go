package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanad-platform/sanad-auth/internal/config"
	"github.com/sanad-platform/sanad-auth/internal/domain/user"
	"github.com/sanad-platform/sanad-auth/internal/http/middlewares"
)

type UserReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type UsersHandler struct {
	users UserReader
}

func NewUsersHandler(users UserReader) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me returns the authenticated user's own profile.
func (h *UsersHandler) Me(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "User not authenticated")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, identity.ID)

	if err != nil {
		RespondNotFound(ctx, "User not found")
		return
	}

	RespondData(ctx, http.StatusOK, gin.H{"user": u})
}

// ListUsers is admin-only; the role gate sits in the router.
func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	users, err := h.users.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	RespondData(ctx, http.StatusOK, gin.H{"users": users})
}
