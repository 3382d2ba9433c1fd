package security

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost keeps interactive verification above ~100ms on current hardware.
const DefaultCost = 12

// ErrEmptyPassword is returned when asked to hash a blank password.
var ErrEmptyPassword = errors.New("password is empty")

// Hasher hashes and verifies passwords using bcrypt. Each digest embeds its own
// cost and a fresh random salt. Callers must not log or persist plaintext passwords.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Zero or negative means
// DefaultCost; other values are clamped to bcrypt's supported range.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Cost reports the work factor used for new digests.
func (h *Hasher) Cost() int { return h.cost }

// Hash produces a self-contained bcrypt digest of password.
func (h *Hasher) Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches digest. A malformed digest is a mismatch.
func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
