package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secr3t!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "Secr3t!" {
		t.Fatalf("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt-encoded hash, got %q", hash)
	}

	if !h.Verify("Secr3t!", hash) {
		t.Fatalf("Verify rejected the original password")
	}
	if h.Verify("wrong", hash) {
		t.Fatalf("Verify accepted a wrong password")
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	h1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	h2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password are identical, salt missing")
	}
}

func TestPasswordHasher_EmptyPlaintext(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	if _, err := h.Hash(""); err == nil {
		t.Fatalf("expected error for empty plaintext")
	}
}

func TestPasswordHasher_MalformedStoredHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	// Must return false, never panic or error out.
	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Fatalf("Verify accepted a malformed stored hash")
	}
	if h.Verify("anything", "") {
		t.Fatalf("Verify accepted an empty stored hash")
	}
}

func TestPasswordHasher_CostFallback(t *testing.T) {
	h := NewPasswordHasher(99)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost fallback, got %d", h.cost)
	}
}
