package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and verifies salted bcrypt hashes. The encoded hash
// embeds the algorithm parameters and salt, so Verify needs no extra state.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Out-of-range
// costs fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the encoded hash for plaintext. A hashing failure is a
// configuration error, not a per-request condition.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("hash: empty plaintext")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches storedHash. The comparison is
// constant-time; a malformed stored hash yields false, never an error.
func (h *PasswordHasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
