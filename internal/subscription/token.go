package subscription

import (
	"crypto/rand"
	"fmt"
)

const (
	tokenLength   = 20
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// newToken returns an unguessable base36 share token.
func newToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
