package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanad-platform/sanad-auth/internal/auth"
	"github.com/sanad-platform/sanad-auth/internal/config"
	"github.com/sanad-platform/sanad-auth/internal/http/middlewares"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	creds, err := h.svc.Register(cctx, req.Email, req.Password, req.Name)

	if err != nil {
		RespondAPIErr(ctx, err)
		return
	}

	RespondData(ctx, http.StatusCreated, creds)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	creds, err := h.svc.Login(cctx, req.Email, req.Password)

	if err != nil {
		RespondAPIErr(ctx, err)
		return
	}

	RespondData(ctx, http.StatusOK, creds)
}

// Logout runs behind RequireAuth, so the token on the context has
// already passed the revocation and signature checks.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	token, ok := middlewares.TokenFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "No token provided")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.svc.Logout(cctx, token); err != nil {
		RespondAPIErr(ctx, err)
		return
	}

	RespondData(ctx, http.StatusOK, gin.H{
		"message": "Logged out successfully. Token has been invalidated.",
	})
}

func (h *AuthHandler) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// generous timeout: this path hashes nothing but may send email
	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	result, err := h.svc.ForgotPassword(cctx, req.Email)

	if err != nil {
		RespondAPIErr(ctx, err)
		return
	}

	RespondData(ctx, http.StatusOK, result)
}

func (h *AuthHandler) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	if err := h.svc.ResetPassword(cctx, req.Token, req.Password); err != nil {
		RespondAPIErr(ctx, err)
		return
	}

	RespondData(ctx, http.StatusOK, gin.H{
		"message": "Password has been reset successfully. You can now login with your new password.",
	})
}
