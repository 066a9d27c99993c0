package id

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes is 256 bits of entropy, enough for an unguessable
// single-use credential embedded in a URL path segment.
const tokenBytes = 32

// SecureToken returns a URL-safe random token.
func SecureToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
