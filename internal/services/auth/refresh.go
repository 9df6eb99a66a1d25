package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

func newOpaqueToken(byteLen int) (string, error) {
	if byteLen <= 0 {
		return "", fmt.Errorf("invalid token size")
	}

	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}

func NewRefreshToken() (string, error) {
	return newOpaqueToken(32)
}

func NewSessionID() (string, error) {
	return newOpaqueToken(20)
}
