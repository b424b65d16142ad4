// Package crypt provides the random-token and digest helpers used by the
// password reset flow.
package crypt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// RandomHex returns n random bytes hex-encoded (2n characters). Used for
// password reset tokens and session identifiers.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypt: random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash returns a SHA-256 hex digest of the input.
func Hash(input string) string {
	h := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", h)
}
