package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRevocationStore(time.Hour)

	revoked, err := s.IsRevoked(ctx, "tok-1")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if revoked {
		t.Fatalf("fresh store should not report revoked")
	}

	if err := s.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	// revoking twice is a no-op
	if err := s.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("second Revoke error: %v", err)
	}

	revoked, err = s.IsRevoked(ctx, "tok-1")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if !revoked {
		t.Fatalf("token should be revoked")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	revoked, _ = s.IsRevoked(ctx, "tok-1")
	if revoked {
		t.Fatalf("cleared store should not report revoked")
	}
}

func TestMemoryRevocationStoreEntryExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRevocationStore(10 * time.Millisecond)

	if err := s.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	// The token itself is past its lifetime now; the entry may be
	// dropped since expiry alone keeps it out.
	revoked, err := s.IsRevoked(ctx, "tok-1")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if revoked {
		t.Fatalf("entry should have aged out with the token TTL")
	}
}

func TestMemoryRevocationStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRevocationStore(time.Hour)

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Revoke(ctx, "shared-token")
			_, _ = s.IsRevoked(ctx, "shared-token")
		}()
	}
	wg.Wait()

	revoked, err := s.IsRevoked(ctx, "shared-token")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if !revoked {
		t.Fatalf("concurrent revocations must not be lost")
	}
}

func TestRedisRevocationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s := NewRedisRevocationStore(RedisConfig{Addr: mr.Addr()}, time.Hour)
	defer s.Close()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping error: %v", err)
	}

	if err := s.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	revoked, err := s.IsRevoked(ctx, "tok-1")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if !revoked {
		t.Fatalf("token should be revoked")
	}

	// entries carry the token TTL
	if mr.TTL(revokedKeyPrefix+"tok-1") != time.Hour {
		t.Errorf("expected key TTL of 1h, got %v", mr.TTL(revokedKeyPrefix+"tok-1"))
	}

	revoked, err = s.IsRevoked(ctx, "other")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if revoked {
		t.Fatalf("unrelated token must not read as revoked")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	revoked, _ = s.IsRevoked(ctx, "tok-1")
	if revoked {
		t.Fatalf("cleared store should not report revoked")
	}
}
