package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)

	token, err := m.Issue("user-123")

	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	got, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify error: %v", err)
	}

	if got != "user-123" {
		t.Errorf("subject = %q, want user-123", got)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewManager("test-secret-key", -time.Minute)

	token, err := m.Issue("user-123")

	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	_, err = m.Verify(token)

	if err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue("user-123")

	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.Verify(tok); err != ErrInvalidToken {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}
