// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/projecthub/internal/model"
)

// 一意性制約違反を表すセンチネルエラー。
// Postgres実装は制約違反（SQLSTATE 23505）をこれらのエラーに変換して返し、
// サービス層がユーザー向けのバリデーションエラーに写像する。
var (
	// ErrDuplicateEmail はメールアドレスのグローバル一意性制約違反。
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateProjectName は同一所有者内のプロジェクト名一意性制約違反。
	ErrDuplicateProjectName = errors.New("project name already used by owner")
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。メール重複時はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List は全ユーザーをcreated_at昇順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// Update はユーザー情報を上書き更新する。メール重複時はErrDuplicateEmailを返す。
	// 対象が存在しない場合はエラーを返す。
	Update(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するセッションはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
type ProjectRepository interface {
	// Create はプロジェクトを作成する。
	// 同一所有者内で名前が重複する場合はErrDuplicateProjectNameを返す。
	Create(ctx context.Context, project *model.Project) error

	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// List は全プロジェクトをcreated_at降順で返す。
	List(ctx context.Context) ([]*model.Project, error)

	// CountByOwnerID は指定ユーザーが所有するプロジェクト数を返す。
	CountByOwnerID(ctx context.Context, ownerID string) (int, error)

	// Update はプロジェクト情報を上書き更新する。
	// 同一所有者内で名前が重複する場合はErrDuplicateProjectNameを返す。
	Update(ctx context.Context, project *model.Project) error

	// DeleteByID は指定IDのプロジェクトを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しなくてもエラーにしない。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}
