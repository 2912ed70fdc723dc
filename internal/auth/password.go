// Package auth はパスワード認証、セッション管理、行為者の解決を提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength はパスワードの最小文字数。
const MinPasswordLength = 6

// HashPassword は平文パスワードをbcryptでハッシュ化する。
// costはbcryptのコストパラメータ（bcrypt.MinCost〜bcrypt.MaxCost）。
// 最小文字数を満たさないパスワードはエラーを返す。
func HashPassword(plaintext string, cost int) (string, error) {
	if len(plaintext) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword はハッシュと平文パスワードの一致を検証する。
// 一致しない場合はfalseを返す。エラーは返さない（不一致は正常な結果）。
func VerifyPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
