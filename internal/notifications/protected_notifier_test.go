package notifications

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) SendPasswordReset(ctx context.Context, in SendPasswordResetInput) error {
	s.calls++
	return s.err
}

func resetInput() SendPasswordResetInput {
	return SendPasswordResetInput{
		Email:     "parent@example.com",
		ResetLink: "http://localhost:3000/reset-password?token=abc",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestProtectedNotifierOpensAfterThreshold(t *testing.T) {
	stub := &stubNotifier{err: errors.New("relay down")}

	n := NewProtectedNotifier(stub, ProtectedNotifierConfig{
		FailureThreshold: 3,
		Cooldown:         time.Minute,
	})

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := n.SendPasswordReset(ctx, resetInput()); err == nil {
			t.Fatalf("send %d: expected provider error", i)
		}
	}

	// circuit is open now; the provider must not be called again
	err := n.SendPasswordReset(ctx, resetInput())

	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	if stub.calls != 3 {
		t.Errorf("provider calls = %d, want 3", stub.calls)
	}
}

func TestProtectedNotifierRecoversAfterCooldown(t *testing.T) {
	stub := &stubNotifier{err: errors.New("relay down")}

	n := NewProtectedNotifier(stub, ProtectedNotifierConfig{
		FailureThreshold: 1,
		Cooldown:         10 * time.Millisecond,
	})

	ctx := context.Background()

	if err := n.SendPasswordReset(ctx, resetInput()); err == nil {
		t.Fatalf("expected provider error")
	}

	time.Sleep(20 * time.Millisecond)
	stub.err = nil

	if err := n.SendPasswordReset(ctx, resetInput()); err != nil {
		t.Fatalf("half-open trial should succeed, got %v", err)
	}

	if err := n.SendPasswordReset(ctx, resetInput()); err != nil {
		t.Fatalf("circuit should be closed again, got %v", err)
	}
}

func TestProtectedNotifierPassesThrough(t *testing.T) {
	stub := &stubNotifier{}

	n := NewProtectedNotifier(stub, ProtectedNotifierConfig{})

	if err := n.SendPasswordReset(context.Background(), resetInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 1 {
		t.Errorf("provider calls = %d, want 1", stub.calls)
	}
}
