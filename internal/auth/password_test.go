package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// TestHashPassword_RoundTrip はハッシュ化したパスワードが検証を通ることを確認する。
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash should not equal plaintext")
	}

	if !VerifyPassword(hash, "secret123") {
		t.Error("VerifyPassword should succeed for the original plaintext")
	}
	if VerifyPassword(hash, "secret124") {
		t.Error("VerifyPassword should fail for a different plaintext")
	}
}

// TestHashPassword_TooShort は最小文字数未満のパスワードが拒否されることを確認する。
func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("12345", bcrypt.MinCost); err == nil {
		t.Error("expected error for password shorter than minimum length")
	}

	// ちょうど6文字は許可される
	if _, err := HashPassword("123456", bcrypt.MinCost); err != nil {
		t.Errorf("6-character password should be accepted, got error: %v", err)
	}
}

// TestVerifyPassword_InvalidHash は不正なハッシュに対してfalseを返すことを確認する。
func TestVerifyPassword_InvalidHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "secret123") {
		t.Error("VerifyPassword should fail for an invalid hash")
	}
}
