package booking

import (
	"crypto/rand"
)

const (
	codePrefix   = "BK"
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewCode returns a human-readable booking code: fixed prefix plus 6 random
// alphanumeric characters. Uniqueness is enforced by the store; callers retry
// generation on collision.
func NewCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return codePrefix + string(buf), nil
}
