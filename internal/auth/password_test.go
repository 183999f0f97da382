package auth

import (
	"strings"
	"testing"
)

// newTestPasswordService uses bcrypt cost 4 (the library minimum) so
// the suite runs in milliseconds instead of ~250ms per hash.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceWithCost(4)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_ReturnsNonEmptyHash(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("my-secret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Error("Hash() returned empty string")
	}
}

func TestHash_NeverStoresPlaintext(t *testing.T) {
	ps := newTestPasswordService()

	const plaintext = "secret1"
	hash, err := ps.Hash(plaintext)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash == plaintext {
		t.Fatal("Hash() returned the plaintext itself")
	}
	if strings.Contains(hash, plaintext) {
		t.Error("Hash() output contains the plaintext")
	}
	// bcrypt hashes always start with $2a$ or $2b$
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	// The salt is random per call, so identical passwords must hash
	// differently.
	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

func TestHash_RejectsOver72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(strings.Repeat("x", 73))
	if err == nil {
		t.Error("Hash() accepted a password longer than 72 bytes")
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify_CorrectPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !ps.Verify(hash, "correct horse battery staple") {
		t.Error("Verify() = false for the correct password")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	for _, wrong := range []string{"secret2", "Secret1", "secret1 ", ""} {
		if ps.Verify(hash, wrong) {
			t.Errorf("Verify() = true for wrong password %q", wrong)
		}
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	ps := newTestPasswordService()

	if ps.Verify("not-a-bcrypt-hash", "anything") {
		t.Error("Verify() = true for a malformed stored hash")
	}
}
