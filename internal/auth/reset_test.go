package auth

import (
	"testing"
	"time"
)

func TestResetTokenGenerate(t *testing.T) {
	s := NewResetTokenService(time.Hour)

	tok, err := s.Generate()

	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	if len(tok.Plaintext) != 64 { // 32 bytes hex-encoded
		t.Errorf("plaintext length = %d, want 64", len(tok.Plaintext))
	}

	if tok.Digest == tok.Plaintext {
		t.Fatalf("digest must not equal plaintext")
	}

	if tok.Digest != HashResetToken(tok.Plaintext) {
		t.Fatalf("digest must be the SHA-256 of the plaintext")
	}

	until := time.Until(tok.ExpiresAt)
	if until < 59*time.Minute || until > 61*time.Minute {
		t.Errorf("expiry %v not roughly one hour out", until)
	}
}

func TestResetTokenUnique(t *testing.T) {
	s := NewResetTokenService(time.Hour)

	a, _ := s.Generate()
	b, _ := s.Generate()

	if a.Plaintext == b.Plaintext {
		t.Fatalf("two generated tokens must differ")
	}
}

func TestResetTokenValidate(t *testing.T) {
	s := NewResetTokenService(time.Hour)
	tok, _ := s.Generate()

	future := time.Now().Add(30 * time.Minute)
	past := time.Now().Add(-time.Minute)
	wrongDigest := HashResetToken("something-else")

	tests := []struct {
		name   string
		plain  string
		digest *string
		expiry *time.Time
		want   bool
	}{
		{"valid", tok.Plaintext, &tok.Digest, &future, true},
		{"expired", tok.Plaintext, &tok.Digest, &past, false},
		{"wrong token", "bogus", &tok.Digest, &future, false},
		{"digest mismatch", tok.Plaintext, &wrongDigest, &future, false},
		{"no pending reset", tok.Plaintext, nil, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Validate(tc.plain, tc.digest, tc.expiry)
			if got != tc.want {
				t.Errorf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}
