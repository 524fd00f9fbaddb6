package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")

	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if hash == "secret1" {
		t.Fatalf("hash must not equal plaintext")
	}

	if !CheckPassword(hash, "secret1") {
		t.Fatalf("expected password to match")
	}

	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected password mismatch")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	// Garbage in the hash column must read as a mismatch, never a panic.
	if CheckPassword("not-a-bcrypt-hash", "secret1") {
		t.Fatalf("malformed hash should not verify")
	}

	if CheckPassword("", "secret1") {
		t.Fatalf("empty hash should not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	h2, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ")
	}
}
