// Package auth provides password hashing and session token handling.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor for production use. Hashing at
// cost 12 takes a few hundred milliseconds on current server hardware,
// which is the point: slow for an attacker, negligible for a login.
const defaultCost = 12

// PasswordService hashes and verifies passwords with bcrypt. bcrypt
// generates a random salt per hash and embeds it in the output, so the
// stored string is self-contained — no separate salt column.
//
// The cost is a struct field rather than a constant so tests can inject
// the bcrypt minimum (4) and avoid the deliberate slowness.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom
// bcrypt cost. Intended for tests; do not lower the cost in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash derives a bcrypt hash from the plaintext. The output (including
// salt and cost) is what gets stored; the plaintext never is.
//
// bcrypt silently truncates input beyond 72 bytes, so longer passwords
// are rejected outright instead of being partially hashed.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. The
// comparison inside bcrypt is constant-time.
//
// The return value is a plain bool on purpose: callers fold it into a
// single undifferentiated login failure, and a descriptive error here
// would invite leaking the reason to the user.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// Malformed stored hash. Treat as non-matching.
		return false
	}
	return err == nil
}
