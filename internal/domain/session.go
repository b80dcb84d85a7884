package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionTokenBytes is the entropy of a session token; the hex encoding
// yields a 40-character opaque key.
const sessionTokenBytes = 20

// Session binds an opaque token to a user identity. One session exists per
// user at a time: repeated logins return the existing token rather than
// rotating it. Sessions do not expire; they are destroyed only by logout.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// NewSessionToken generates a cryptographically random opaque session token.
func NewSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
