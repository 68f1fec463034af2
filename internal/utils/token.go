package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

// TokenBytes is the entropy behind invitation tokens and interview links.
const TokenBytes = 32

var tokenPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// NewToken returns 32 random bytes hex encoded (64 chars).
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ValidToken checks the shape of a token before it reaches the store.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}
