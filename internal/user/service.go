// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/projecthub/internal/auth"
	"github.com/hitoshi/projecthub/internal/authz"
	"github.com/hitoshi/projecthub/internal/model"
	"github.com/hitoshi/projecthub/internal/repository"
)

// ProjectCounter は所有プロジェクト数の取得インターフェース。
// repository.ProjectRepositoryの部分集合として定義する。
type ProjectCounter interface {
	CountByOwnerID(ctx context.Context, ownerID string) (int, error)
}

// Sanitizer はユーザー入力テキストのサニタイズインターフェース。
type Sanitizer interface {
	Sanitize(input string) string
}

// RegistrationRecorder は新規登録のメトリクス記録インターフェース。
// nilの場合は記録をスキップする。
type RegistrationRecorder interface {
	RecordRegistration()
}

// ServiceConfig はユーザーサービスの設定。
type ServiceConfig struct {
	BcryptCost int // bcryptのコストパラメータ
}

// Service はユーザー管理のサービス層。
// 登録・参照・更新・削除のビジネスロジックと認可を提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	projects    ProjectCounter
	sanitizer   Sanitizer
	metrics     RegistrationRecorder
	config      ServiceConfig
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	projects ProjectCounter,
	sanitizer Sanitizer,
	metrics RegistrationRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		projects:    projects,
		sanitizer:   sanitizer,
		metrics:     metrics,
		config:      config,
	}
}

// RegisterInput は新規登録の入力。フィールドは明示的に宣言し、
// リクエストからの一括代入は行わない。
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateInput はユーザー更新の入力。nilのフィールドは変更しない。
// Adminの変更は管理者のみ許可される。
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Admin    *bool
}

// Register は新規ユーザーを登録する。誰でも（匿名でも）実行できる。
// 名前・メールアドレスは必須、パスワードは6文字以上。
// メールアドレスが既に使用されている場合はバリデーションエラーを返す。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := authz.Check(authz.Anonymous, authz.ActionRegister, authz.Target{}); err != nil {
		return nil, err
	}

	name := s.sanitizer.Sanitize(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return nil, model.NewValidationError("name", "名前は必須です")
	}
	if email == "" {
		return nil, model.NewValidationError("email", "メールアドレスは必須です")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, model.NewValidationError("password",
			fmt.Sprintf("パスワードは%d文字以上で入力してください", auth.MinPasswordLength))
	}

	hash, err := auth.HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUser := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Admin:        false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailTakenError(email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	slog.Info("new user registered",
		slog.String("user_id", newUser.ID),
	)

	return newUser, nil
}

// Get は指定IDのユーザーを取得する。ログイン必須。
func (s *Service) Get(ctx context.Context, actor authz.Identity, id string) (*model.User, error) {
	if err := authz.Check(actor, authz.ActionViewUser, authz.Target{UserID: id}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// List は全ユーザーの一覧を返す。ログイン必須。
func (s *Service) List(ctx context.Context, actor authz.Identity) ([]*model.User, error) {
	if err := authz.Check(actor, authz.ActionListUsers, authz.Target{}); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Update はユーザー情報を更新する。本人または管理者のみ実行できる。
// 管理者フラグの変更は行為者が管理者の場合に限り許可される。
// パスワードを変更する場合も6文字以上の制約が適用される。
func (s *Service) Update(ctx context.Context, actor authz.Identity, id string, in UpdateInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if err := authz.Check(actor, authz.ActionEditUser, authz.Target{UserID: user.ID}); err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := s.sanitizer.Sanitize(*in.Name)
		if name == "" {
			return nil, model.NewValidationError("name", "名前は必須です")
		}
		user.Name = name
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, model.NewValidationError("email", "メールアドレスは必須です")
		}
		user.Email = email
	}

	if in.Password != nil {
		if len(*in.Password) < auth.MinPasswordLength {
			return nil, model.NewValidationError("password",
				fmt.Sprintf("パスワードは%d文字以上で入力してください", auth.MinPasswordLength))
		}
		hash, err := auth.HashPassword(*in.Password, s.config.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if in.Admin != nil && *in.Admin != user.Admin {
		// 管理者フラグの付与・剥奪は管理者のみ。所有者チェックとは別の制約。
		if !actor.Admin {
			return nil, model.NewNotAuthorizedError()
		}
		user.Admin = *in.Admin
	}

	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailTakenError(user.Email)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("user updated",
		slog.String("user_id", user.ID),
		slog.String("actor_id", actor.UserID),
	)

	return user, nil
}

// Delete はユーザーを削除する。本人または管理者のみ実行できる。
// プロジェクトを所有しているユーザーは削除できない（所有者参照の宙吊りを防ぐ）。
// 削除時は当該ユーザーの全セッションも破棄する。
func (s *Service) Delete(ctx context.Context, actor authz.Identity, id string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	if err := authz.Check(actor, authz.ActionDeleteUser, authz.Target{UserID: user.ID}); err != nil {
		return err
	}

	count, err := s.projects.CountByOwnerID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count owned projects: %w", err)
	}
	if count > 0 {
		return model.NewUserHasProjectsError(count)
	}

	if err := s.sessionRepo.DeleteByUserID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	if err := s.userRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted",
		slog.String("user_id", id),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}
