package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/projecthub/internal/authz"
	"github.com/hitoshi/projecthub/internal/model"
	"github.com/hitoshi/projecthub/internal/repository"
)

// MetricsRecorder はログイン試行のメトリクス記録インターフェース。
// nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service はパスワード認証とセッションに関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	metrics     MetricsRecorder
	config      ServiceConfig
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		metrics:     metrics,
		config:      config,
	}
}

// Login はメールアドレスとパスワードを検証し、セッションを発行する。
//
// 失敗は2種類に区別され、それぞれ異なるユーザー向けメッセージになる:
//   - メールアドレスが未登録 → ACCOUNT_NOT_FOUND
//   - パスワード不一致 → INVALID_PASSWORD
//
// どちらの場合もセッションは発行されない。区別は送信者本人への
// レスポンスのみに現れ、ログには失敗種別のタグだけを記録する。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil {
		s.recordLoginFailure("account_not_found")
		return nil, model.NewAccountNotFoundError()
	}

	if !VerifyPassword(user.PasswordHash, password) {
		s.recordLoginFailure("invalid_password")
		return nil, model.NewInvalidPasswordError()
	}

	session, err := s.EstablishSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	slog.Info("user logged in", slog.String("user_id", user.ID))

	return session, nil
}

// Logout はセッションを破棄する。冪等であり、トークンが空の場合や
// 既に存在しないセッションの場合もエラーにしない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out")
	return nil
}

// ResolveIdentity はセッショントークンからリクエストの行為者を解決する。
//
// トークンが空・未登録・期限切れの場合、またはユーザーが既に削除されている
// 場合は匿名を返す。リポジトリ障害時もログに記録した上で匿名に縮退する。
// 匿名での閲覧は正常な状態であるため、この関数はエラーを返さない。
func (s *Service) ResolveIdentity(ctx context.Context, token string) authz.Identity {
	if token == "" {
		return authz.Anonymous
	}

	session, err := s.sessionRepo.FindByID(ctx, token)
	if err != nil {
		slog.Error("failed to resolve session", slog.String("error", err.Error()))
		return authz.Anonymous
	}
	if session == nil {
		return authz.Anonymous
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		slog.Error("failed to resolve session user", slog.String("error", err.Error()))
		return authz.Anonymous
	}
	if user == nil {
		return authz.Anonymous
	}

	return authz.Identity{UserID: user.ID, Admin: user.Admin}
}

// CurrentUser はセッショントークンから現在のユーザーを取得する。
// セッションが無効な場合はnilを返す。
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// EstablishSession は指定ユーザーのセッションを作成し永続化する。
// パスワード検証の成功後、または新規登録直後にのみ呼び出すこと。
func (s *Service) EstablishSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// recordLoginFailure はログイン失敗をメトリクスとログに記録する。
// 失敗種別はメトリクスのラベルにのみ現れ、ログメッセージは共通化する。
func (s *Service) recordLoginFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure(reason)
	}
	slog.Warn("login attempt failed", slog.String("reason", reason))
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
