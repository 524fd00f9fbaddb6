package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationStore is the set of access tokens invalidated before their
// natural expiry. Revocation is terminal: there is no un-revoke.
type RevocationStore interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Clear is for tests and operational cleanup only.
	Clear(ctx context.Context) error
}

// MemoryRevocationStore keeps revoked tokens in a mutex-guarded map.
// Entries are dropped once the token would have expired on its own, so
// the set stays bounded by the token TTL. Suitable for a single
// instance; multi-instance deployments need the Redis store.
type MemoryRevocationStore struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]time.Time
}

func NewMemoryRevocationStore(ttl time.Duration) *MemoryRevocationStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &MemoryRevocationStore{
		ttl: ttl,
		m:   make(map[string]time.Time),
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	s.m[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	now := time.Now()
	s.mu.RLock()
	exp, ok := s.m[token]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if now.After(exp) {
		// The token is past its own lifetime; the entry is dead weight.
		s.mu.Lock()
		delete(s.m, token)
		s.mu.Unlock()
		return false, nil
	}

	return true, nil
}

func (s *MemoryRevocationStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.m = make(map[string]time.Time)
	s.mu.Unlock()
	return nil
}
