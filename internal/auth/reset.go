package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// ResetToken is what ForgotPassword hands back: the plaintext goes out
// in the email exactly once, only the digest is persisted.
type ResetToken struct {
	Plaintext string
	Digest    string
	ExpiresAt time.Time
}

type ResetTokenService struct {
	ttl time.Duration
}

func NewResetTokenService(ttl time.Duration) *ResetTokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &ResetTokenService{ttl: ttl}
}

func (s *ResetTokenService) Generate() (ResetToken, error) {
	buf := make([]byte, 32)

	if _, err := rand.Read(buf); err != nil {
		return ResetToken{}, err
	}

	plaintext := hex.EncodeToString(buf)

	return ResetToken{
		Plaintext: plaintext,
		Digest:    HashResetToken(plaintext),
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}, nil
}

// HashResetToken is a plain SHA-256 digest. The token already carries 32
// bytes of entropy, so a slow password hash buys nothing here.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Validate checks a presented plaintext against the stored digest and
// expiry. Nil stored fields mean no reset is pending.
func (s *ResetTokenService) Validate(plaintext string, storedDigest *string, storedExpiry *time.Time) bool {
	if storedDigest == nil || storedExpiry == nil {
		return false
	}

	if time.Now().After(*storedExpiry) {
		return false
	}

	digest := HashResetToken(plaintext)

	return subtle.ConstantTimeCompare([]byte(digest), []byte(*storedDigest)) == 1
}
