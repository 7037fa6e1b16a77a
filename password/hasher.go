package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the production bcrypt work factor.
const DefaultCost = 12

// maxPasswordBytes mirrors the bcrypt input limit; longer inputs would be
// silently truncated by the algorithm, so they are rejected instead.
const maxPasswordBytes = 72

// Hasher performs one-way adaptive hashing with a cost factor fixed at
// construction.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher struct {
	cost int
}

// NewHasher validates the cost factor and returns a [Hasher].
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash derives a salted one-way hash of password. The output embeds the
// cost and salt and is self-describing for [Hasher.Verify].
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	if len(password) > maxPasswordBytes {
		return "", errors.New("password exceeds 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches encodedHash using bcrypt's own
// constant-time comparison. It never distinguishes a malformed hash from a
// mismatch, so callers cannot leak which one occurred.
func (h *Hasher) Verify(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
