package security

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSessionToken returns an opaque 128-bit bearer token, hex encoded.
func NewSessionToken() (string, error) {
	buf := make([]byte, 16)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
