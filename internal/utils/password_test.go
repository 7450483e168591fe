package utils

import (
	"strings"
	"testing"
)

func TestHashPassword_NeverPlaintext(t *testing.T) {
	t.Parallel()

	const plain = "pw123456"
	hash, err := HashPassword(plain, 4) // min cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == plain || strings.Contains(hash, plain) {
		t.Fatalf("hash contains the plaintext")
	}
	if !VerifyPassword(hash, plain) {
		t.Fatalf("VerifyPassword rejected the original password")
	}
	if VerifyPassword(hash, "pw1234567") {
		t.Fatalf("VerifyPassword accepted a different password")
	}
}

func TestHashPassword_FreshSaltPerHash(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	b, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password are identical; salt is not fresh")
	}
}

func TestHashPassword_CostOutOfRangeFallsBack(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw123456", 99)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !VerifyPassword(hash, "pw123456") {
		t.Fatalf("hash produced with fallback cost does not verify")
	}
}
