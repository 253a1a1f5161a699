package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes and verifies passwords. Stored values that are not
// bcrypt hashes are treated as legacy plaintext.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash creates a bcrypt hash of the password
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches stored. needsUpgrade is true when
// the match was against legacy plaintext and stored should be replaced.
func (h *BcryptHasher) Verify(stored, password string) (ok bool, needsUpgrade bool) {
	if stored == "" {
		return false, false
	}
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1 {
		return true, true
	}
	return false, false
}

func IsHashed(stored string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(stored, prefix) {
			return true
		}
	}
	return false
}
