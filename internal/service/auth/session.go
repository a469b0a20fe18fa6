package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionIDBytes is the entropy of a session id; the hex form is twice as long.
const sessionIDBytes = 32

// NewSessionID returns a random opaque session identifier.
func NewSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
