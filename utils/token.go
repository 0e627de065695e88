package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// GenerateSecureToken returns a hex-encoded random token, used for
// password resets.
func GenerateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateShareToken returns a URL-safe bearer token for share links.
func GenerateShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
