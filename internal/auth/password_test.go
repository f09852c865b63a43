package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Fatal("expected password to match its hash")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
	if err := ValidatePassword("long enough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpaqueTokenHash(t *testing.T) {
	tok, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	other, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if tok == other {
		t.Fatal("expected distinct tokens")
	}
	if HashToken(tok) == HashToken(other) {
		t.Fatal("expected distinct digests")
	}
	if HashToken(tok) != HashToken(tok) {
		t.Fatal("expected deterministic digest")
	}
}
