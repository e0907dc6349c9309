package security

import (
	"encoding/hex"
	"testing"
)

func TestGenerateInviteToken(t *testing.T) {
	token, err := GenerateInviteToken()
	if err != nil {
		t.Fatalf("GenerateInviteToken() error = %v", err)
	}

	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex characters", len(token))
	}

	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("token is not valid hex: %v", err)
	}
}

func TestGenerateTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateToken(16)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}
