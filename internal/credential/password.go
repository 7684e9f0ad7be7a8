package credential

import (
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// MaxPasswordBytes is the longest input bcrypt will accept
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt
type Hasher struct {
	cost int // bcrypt cost factor
}

// NewHasher returns a Hasher using cost, or bcrypt.DefaultCost when cost is out of range
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of password truncated to MaxPasswordBytes
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Any bcrypt error counts as a mismatch.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

// truncate applies the same byte limit on both the hashing and the comparison side
func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
