package security

import (
	"crypto/rand"
	"encoding/hex"
)

// InviteTokenBytes is the entropy of an invite token. 32 bytes yields a
// 64-character hex string.
const InviteTokenBytes = 32

// GenerateToken returns a cryptographically random hex token built from
// n random bytes.
func GenerateToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateInviteToken returns an opaque single-use invite token.
func GenerateInviteToken() (string, error) {
	return GenerateToken(InviteTokenBytes)
}
