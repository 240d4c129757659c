package service

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	salt, digest, ok := strings.Cut(hash, "$")
	if !ok {
		t.Fatalf("hash %q has no separator", hash)
	}
	if len(salt) != 32 {
		t.Errorf("salt length = %d, want 32 hex chars", len(salt))
	}
	if len(digest) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(digest))
	}

	if !VerifyPassword("admin123", hash) {
		t.Error("expected password to verify against its own hash")
	}
	if VerifyPassword("admin1234", hash) {
		t.Error("expected different password to fail")
	}
	if VerifyPassword("", hash) {
		t.Error("expected empty password to fail")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Error("two hashes of the same password should use different salts")
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	valid, _ := HashPassword("secret")
	salt, digest, _ := strings.Cut(valid, "$")

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"no separator", salt + digest},
		{"empty salt", "$" + digest},
		{"empty digest", salt + "$"},
		{"extra separator", salt + "$" + digest + "$x"},
		{"non-hex digest", salt + "$zzzz"},
		{"truncated digest", salt + "$" + digest[:10]},
		{"garbage", "not a hash at all"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if VerifyPassword("secret", tc.hash) {
				t.Errorf("VerifyPassword accepted malformed hash %q", tc.hash)
			}
		})
	}
}

func TestVerifyPasswordKnownVector(t *testing.T) {
	// The salt text, not its decoded bytes, is the PBKDF2 salt.
	salt := "00112233445566778899aabbccddeeff"
	hash := salt + "$" + derive("admin123", salt)
	if !VerifyPassword("admin123", hash) {
		t.Error("expected hash built from derive to verify")
	}
	if VerifyPassword("admin123", "ffeeddccbbaa99887766554433221100$"+derive("admin123", salt)) {
		t.Error("digest must be bound to its salt")
	}
}
