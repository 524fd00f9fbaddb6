package auth

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sanad-platform/sanad-auth/internal/apierr"
	"github.com/sanad-platform/sanad-auth/internal/domain/user"
	"github.com/sanad-platform/sanad-auth/internal/notifications"
	"github.com/sanad-platform/sanad-auth/internal/observability"
	"github.com/sanad-platform/sanad-auth/internal/repo/postgres"
	"github.com/sanad-platform/sanad-auth/internal/security"
)

// Matches the platform's registration email check: something, an @,
// something, a dot, something, no whitespace anywhere.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// loginFailedMessage is shared by the unknown-email and wrong-password
// paths. Keeping them byte-identical prevents account enumeration.
const loginFailedMessage = "Invalid email or password"

const forgotPasswordMessage = "If the email exists, a password reset link has been sent."

// UserStore is the persistence surface the auth flows need. Kept small
// so tests can fake it.
type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	SetResetToken(ctx context.Context, userID, digest string, expiresAt time.Time) error
	// ConsumeResetToken atomically matches a non-expired digest, writes
	// the new password hash and clears both reset fields in one
	// statement. It succeeds at most once per issued token.
	ConsumeResetToken(ctx context.Context, digest, newPasswordHash string) (user.User, error)
}

type Service struct {
	users      UserStore
	jwt        *Manager
	revocation RevocationStore
	reset      *ResetTokenService
	notifier   notifications.Notifier
	log        *slog.Logger
	metrics    *observability.Prom

	env         string
	frontendURL string
}

type ServiceOptions struct {
	Users       UserStore
	JWT         *Manager
	Revocation  RevocationStore
	Reset       *ResetTokenService
	Notifier    notifications.Notifier
	Log         *slog.Logger
	Metrics     *observability.Prom
	Env         string
	FrontendURL string
}

func NewService(opts ServiceOptions) *Service {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		users:       opts.Users,
		jwt:         opts.JWT,
		revocation:  opts.Revocation,
		reset:       opts.Reset,
		notifier:    opts.Notifier,
		log:         log,
		metrics:     opts.Metrics,
		env:         opts.Env,
		frontendURL: opts.FrontendURL,
	}
}

type Credentials struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

type ForgotPasswordResult struct {
	Message string `json:"message"`
	// Populated outside production only, to support local testing.
	ResetToken string `json:"resetToken,omitempty"`
	ResetLink  string `json:"resetLink,omitempty"`
}

// NormalizeEmail applies the canonical form used everywhere an email is
// compared or stored: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password, name string) (Credentials, error) {
	email = NormalizeEmail(email)

	if !emailPattern.MatchString(email) {
		s.countRegistration("rejected")
		return Credentials{}, apierr.BadRequest("Invalid email format")
	}

	if len(password) < minPasswordLength {
		s.countRegistration("rejected")
		return Credentials{}, apierr.BadRequest("Password must be at least 6 characters")
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return Credentials{}, apierr.Internal("Could not create user")
	}

	u, err := s.users.Create(ctx, user.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         user.RoleParent,
	})

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			s.countRegistration("conflict")
			return Credentials{}, apierr.Conflict("Email already exists")
		}

		s.log.ErrorContext(ctx, "register: create user failed", "err", err)
		return Credentials{}, apierr.Internal("Could not create user")
	}

	token, err := s.jwt.Issue(u.ID)

	if err != nil {
		return Credentials{}, apierr.Internal("Could not generate token")
	}

	s.countRegistration("ok")
	return Credentials{User: u, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Credentials, error) {
	email = NormalizeEmail(email)

	u, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			s.countLogin("rejected")
			return Credentials{}, apierr.Unauthorized(loginFailedMessage)
		}

		s.log.ErrorContext(ctx, "login: user lookup failed", "err", err)
		return Credentials{}, apierr.Internal("Could not log in")
	}

	if !security.CheckPassword(u.PasswordHash, password) {
		s.countLogin("rejected")
		return Credentials{}, apierr.Unauthorized(loginFailedMessage)
	}

	// A fresh token per login; existing sessions stay valid.
	token, err := s.jwt.Issue(u.ID)

	if err != nil {
		return Credentials{}, apierr.Internal("Could not generate token")
	}

	s.countLogin("ok")
	return Credentials{User: u, Token: token}, nil
}

// Logout adds the presented token to the revocation store. Revoking an
// already-revoked token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.revocation.Revoke(ctx, token); err != nil {
		s.log.ErrorContext(ctx, "logout: revocation failed", "err", err)
		return apierr.Internal("Could not log out")
	}

	if s.metrics != nil {
		s.metrics.TokenRevocations.Inc()
	}

	return nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) (ForgotPasswordResult, error) {
	email = NormalizeEmail(email)

	if !emailPattern.MatchString(email) {
		return ForgotPasswordResult{}, apierr.BadRequest("Invalid email format")
	}

	u, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			// Same response as the happy path so account existence
			// cannot be probed.
			s.countReset("request", "unknown_email")
			return ForgotPasswordResult{Message: forgotPasswordMessage}, nil
		}

		s.log.ErrorContext(ctx, "forgot password: user lookup failed", "err", err)
		return ForgotPasswordResult{}, apierr.Internal("Could not process request")
	}

	tok, err := s.reset.Generate()

	if err != nil {
		return ForgotPasswordResult{}, apierr.Internal("Could not process request")
	}

	if err := s.users.SetResetToken(ctx, u.ID, tok.Digest, tok.ExpiresAt); err != nil {
		s.log.ErrorContext(ctx, "forgot password: persist token failed", "err", err)
		return ForgotPasswordResult{}, apierr.Internal("Could not process request")
	}

	resetLink := s.frontendURL + "/reset-password?token=" + tok.Plaintext

	// Email failure is logged for operators but never changes the
	// client-facing response.
	if s.notifier != nil {
		err := s.notifier.SendPasswordReset(ctx, notifications.SendPasswordResetInput{
			Email:     u.Email,
			ResetLink: resetLink,
			ExpiresAt: tok.ExpiresAt,
		})

		if err != nil {
			s.log.ErrorContext(ctx, "forgot password: email dispatch failed", "err", err, "email", u.Email)
		}
	}

	s.countReset("request", "ok")

	result := ForgotPasswordResult{Message: forgotPasswordMessage}

	if s.env != "prod" {
		result.ResetToken = tok.Plaintext
		result.ResetLink = resetLink
	}

	return result, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < minPasswordLength {
		return apierr.BadRequest("Password must be at least 6 characters")
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return apierr.Internal("Could not reset password")
	}

	u, err := s.users.ConsumeResetToken(ctx, HashResetToken(token), hash)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			s.countReset("confirm", "rejected")
			return apierr.BadRequest("Invalid or expired reset token")
		}

		s.log.ErrorContext(ctx, "reset password: consume failed", "err", err)
		return apierr.Internal("Could not reset password")
	}

	s.countReset("confirm", "ok")
	s.log.InfoContext(ctx, "password reset", "user_id", u.ID)
	return nil
}

func (s *Service) countLogin(result string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(result).Inc()
	}
}

func (s *Service) countRegistration(result string) {
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}
}

func (s *Service) countReset(stage, result string) {
	if s.metrics != nil {
		s.metrics.PasswordResetsTotal.WithLabelValues(stage, result).Inc()
	}
}
