package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !h.Verify(hash, "secret") {
		t.Fatal("expected password to verify")
	}
	if h.Verify(hash, "Secret") {
		t.Fatal("expected wrong password to fail")
	}
	if h.Verify("not-a-hash", "secret") {
		t.Fatal("malformed hash must not verify")
	}
}

func TestPasswordHasherTooLong(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	if _, err := h.Hash(strings.Repeat("a", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestNewPasswordHasherDefaultCost(t *testing.T) {
	if h := NewPasswordHasher(0); h.Cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.Cost)
	}
}
