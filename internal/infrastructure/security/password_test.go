package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/traymate/backend/internal/core/domain"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("care123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "care123" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Verify(hash, "care123") {
		t.Fatalf("expected password to verify")
	}
	if h.Verify(hash, "care124") {
		t.Fatalf("wrong password verified")
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestBcryptHasher_VerifyGarbageHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("not-a-bcrypt-hash", "x") {
		t.Fatalf("garbage hash must not verify")
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	if h := NewBcryptHasher(99); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}

func TestBcryptHasher_TooLongIsInvalidInput(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("a", domain.MaxPasswordBytes)); err != nil {
		t.Fatalf("72 bytes must hash: %v", err)
	}
	_, err := h.Hash(strings.Repeat("a", domain.MaxPasswordBytes+1))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
