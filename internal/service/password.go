package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	saltBytes        = 16
	hashSeparator    = "$"
)

// HashPassword derives a PBKDF2-HMAC-SHA256 hash of password with a fresh
// random salt. The result has the form "<salt hex>$<hash hex>"; neither part
// can contain the separator.
func HashPassword(password string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	salt := hex.EncodeToString(raw)
	return salt + hashSeparator + derive(password, salt), nil
}

// VerifyPassword reports whether password matches a hash produced by
// HashPassword. Malformed hashes never match.
func VerifyPassword(password, hashed string) bool {
	salt, want, ok := strings.Cut(hashed, hashSeparator)
	if !ok || salt == "" || want == "" || strings.Contains(want, hashSeparator) {
		return false
	}
	if _, err := hex.DecodeString(want); err != nil {
		return false
	}
	got := derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(want))) == 1
}

// derive uses the hex salt text itself as the PBKDF2 salt so hashes stay
// compatible with existing admin records.
func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}
