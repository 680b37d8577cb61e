package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for every stored password.
const Cost = 10

// bcrypt only looks at the first 72 bytes of a password.
const maxPasswordBytes = 72

type Hasher struct {
	cost      int
	dummyHash string
}

// NewHasher builds a hasher and precomputes the dummy digest used for unknown-account logins.
func NewHasher() (*Hasher, error) {
	return newHasher(Cost)
}

func newHasher(cost int) (*Hasher, error) {
	h := &Hasher{cost: cost}

	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("dummy hash seed: %w", err)
	}

	dummy, err := h.Hash(hex.EncodeToString(seed))
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	h.dummyHash = dummy

	return h, nil
}

// Hash password hashes a plain text password with bcrypt.
func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordBytes(plain), h.cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify compares a bcrypt hash with a plaintext password. A malformed hash is a mismatch.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(plain)) == nil
}

// passwordBytes truncates to the bcrypt limit instead of failing, so long
// passwords hash the way they always have and still verify at login.
func passwordBytes(plain string) []byte {
	b := []byte(plain)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// DummyHash is a valid digest of a random secret, so comparing against it
// costs the same as comparing against a real user's hash.
func (h *Hasher) DummyHash() string {
	return h.dummyHash
}
