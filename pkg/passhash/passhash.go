// Package passhash implements the stored password hash format
// hex(sha256(salt || password)) + ":" + hex(salt). The single-round SHA-256
// scheme is preserved for compatibility with existing records; verification
// must be bit-identical with hashes already at rest.
package passhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

const saltLength = 16

// Hash generates a fresh random salt and returns the encoded hash.
// Two hashes of the same password differ because the salts differ.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(digest(salt, password)) + ":" + hex.EncodeToString(salt), nil
}

// Verify reports whether password matches the stored hash. A malformed
// stored value verifies as false, never as an error: login code treats any
// mismatch identically.
func Verify(password, stored string) bool {
	digestHex, saltHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(digest(salt, password), want) == 1
}

func digest(salt []byte, password string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	return h.Sum(nil)
}
