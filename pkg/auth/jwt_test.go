package auth_test

import (
	"testing"

	"github.com/vanyajewels/storefront/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" {
		t.Errorf("unexpected user id: %s", claims.UserID)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("expected malformed token to fail")
	}
	if _, err := auth.ValidateToken(""); err == nil {
		t.Error("expected empty token to fail")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := auth.GenerateToken("507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := auth.ValidateToken(tampered); err == nil {
		t.Error("expected tampered signature to fail")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "secret123" {
		t.Error("hash must not equal the plaintext")
	}
	if !auth.CheckPassword(hash, "secret123") {
		t.Error("expected correct password to verify")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
}

func TestGenerateOTPShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := auth.GenerateOTP()
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit in otp: %q", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("expected some variety across 20 codes")
	}
}
