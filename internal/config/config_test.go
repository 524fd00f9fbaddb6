package config

import (
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()

	if err == nil {
		t.Fatalf("expected error when JWT_SECRET is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("RESET_TOKEN_TTL_MINUTES", "")

	cfg, err := Load()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.JWTExpiresIn != 7*24*time.Hour {
		t.Errorf("JWTExpiresIn = %v, want 168h", cfg.JWTExpiresIn)
	}

	if cfg.ResetTokenTTL != time.Hour {
		t.Errorf("ResetTokenTTL = %v, want 1h", cfg.ResetTokenTTL)
	}

	if cfg.Env != "dev" {
		t.Errorf("Env = %q, want dev", cfg.Env)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRES_IN", "15m")
	t.Setenv("RESET_TOKEN_TTL_MINUTES", "30")
	t.Setenv("PORT", "9001")

	cfg, err := Load()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.JWTExpiresIn != 15*time.Minute {
		t.Errorf("JWTExpiresIn = %v, want 15m", cfg.JWTExpiresIn)
	}

	if cfg.ResetTokenTTL != 30*time.Minute {
		t.Errorf("ResetTokenTTL = %v, want 30m", cfg.ResetTokenTTL)
	}

	if cfg.Port != 9001 {
		t.Errorf("Port = %d, want 9001", cfg.Port)
	}
}
