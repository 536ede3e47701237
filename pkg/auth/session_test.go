package auth

import "testing"

func TestCreateVerifySessionToken(t *testing.T) {
	secret := SessionSecretBytes("unit-test-secret")

	tok := CreateSessionToken("user-42", secret)
	userID, err := VerifySessionToken(tok, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-42" {
		t.Errorf("expected user-42, got %q", userID)
	}
}

func TestVerifySessionToken_TamperedSignature(t *testing.T) {
	secret := SessionSecretBytes("unit-test-secret")

	tok := CreateSessionToken("user-42", secret)
	if _, err := VerifySessionToken(tok+"x", secret); err == nil {
		t.Error("expected error for tampered token")
	}
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	tok := CreateSessionToken("user-42", SessionSecretBytes("secret-a"))
	if _, err := VerifySessionToken(tok, SessionSecretBytes("secret-b")); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestSessionSecretBytes_PadsShortSecret(t *testing.T) {
	b := SessionSecretBytes("short")
	if len(b) != minSecretLen {
		t.Errorf("expected %d bytes, got %d", minSecretLen, len(b))
	}
}
