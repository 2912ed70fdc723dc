package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// isUniqueViolationが制約名とSQLSTATEの両方で判別することを検証
func TestIsUniqueViolation(t *testing.T) {
	emailViolation := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	projectViolation := &pq.Error{Code: "23505", Constraint: "projects_owner_id_name_key"}
	otherError := &pq.Error{Code: "23503", Constraint: "projects_owner_id_fkey"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"メール制約の違反", emailViolation, "users_email_key", true},
		{"別制約の違反は一致しない", projectViolation, "users_email_key", false},
		{"外部キー違反は一意性違反ではない", otherError, "projects_owner_id_fkey", false},
		{"ラップされたpqエラーも判別できる", fmt.Errorf("insert failed: %w", emailViolation), "users_email_key", true},
		{"pq以外のエラー", errors.New("connection refused"), "users_email_key", false},
		{"nilエラー", nil, "users_email_key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

// センチネルエラーがerrors.Isで判別できることを検証
func TestSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("failed to create user: %w", ErrDuplicateEmail)
	if !errors.Is(wrapped, ErrDuplicateEmail) {
		t.Error("wrapped ErrDuplicateEmail should match with errors.Is")
	}
	if errors.Is(wrapped, ErrDuplicateProjectName) {
		t.Error("ErrDuplicateEmail should not match ErrDuplicateProjectName")
	}
}
