package security

import (
	"testing"
	"time"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	ts := NewTokenService([]byte("test-signing-key"), 24*time.Hour)

	token, err := ts.GenerateToken("user-123", "admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	userID, role, err := ts.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected subject user-123, got %s", userID)
	}
	if role != "admin" {
		t.Fatalf("expected role admin, got %s", role)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	ts := NewTokenService([]byte("test-signing-key"), -time.Hour)

	token, err := ts.GenerateToken("user-123", "user")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, _, err := ts.VerifyToken(token); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerifyTokenWrongKey(t *testing.T) {
	issuer := NewTokenService([]byte("key-one"), 24*time.Hour)
	verifier := NewTokenService([]byte("key-two"), 24*time.Hour)

	token, err := issuer.GenerateToken("user-123", "user")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, _, err := verifier.VerifyToken(token); err == nil {
		t.Fatalf("expected token signed with a different key to fail verification")
	}
}

func TestVerifyTokenMalformed(t *testing.T) {
	ts := NewTokenService([]byte("test-signing-key"), 24*time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, _, err := ts.VerifyToken(tok); err == nil {
			t.Fatalf("expected malformed token %q to fail verification", tok)
		}
	}
}
