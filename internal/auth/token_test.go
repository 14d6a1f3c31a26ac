package auth

import (
	"strings"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign("acct-123", secret, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	account, err := Verify(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if account != "acct-123" {
		t.Fatalf("expected acct-123, got %s", account)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Sign("acct-123", []byte("secret-a"), time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(token, []byte("secret-b")); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign("acct-123", secret, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := Verify(tampered, secret); err == nil {
		t.Fatal("expected verification failure for tampered payload")
	}

	if _, err := Verify("not-a-token", secret); err == nil {
		t.Fatal("expected verification failure for malformed token")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign("acct-123", secret, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(token, secret); err == nil {
		t.Fatal("expected verification failure for expired token")
	}
}
