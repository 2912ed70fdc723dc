package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/projecthub/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なDB疎通確認のインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	IdentityResolver  middleware.IdentityResolver
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter
	MetricsRecorder   middleware.HTTPMetricsRecorder // nilの場合はメトリクス記録を行わない
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ユーザー
	UserService        UserServiceInterface
	SessionEstablisher SessionEstablisher

	// プロジェクト
	ProjectService ProjectServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Metrics → Identity → Logging
//
// Identityミドルウェアは匿名リクエストを拒否しない。認証必須ルートは
// グループ内のRequireAuth + レート制限でゲートする。
// ログインには総当たり抑止のため専用レート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}
	r.Use(middleware.NewIdentityMiddleware(deps.IdentityResolver))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService, deps.SessionEstablisher, deps.AuthConfig)
	projectHandler := NewProjectHandler(deps.ProjectService)

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// --- 認証ルート（CSRFチェーンの外） ---
	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- APIルート（状態変更メソッドはCSRFトークン必須） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// 公開ルート: プロジェクト閲覧と新規登録は匿名でも可能
		r.Post("/api/users", userHandler.Register)
		r.Get("/api/projects", projectHandler.List)
		r.Get("/api/projects/{id}", projectHandler.Get)

		// 認証必須ルート
		// 公開ルートと同一パターンを共有するためRoute()ではなく
		// メソッド単位で登録する
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth())
			r.Use(deps.RateLimiter.GeneralMiddleware())

			r.Get("/api/users", userHandler.List)
			r.Get("/api/users/{id}", userHandler.Get)
			r.Patch("/api/users/{id}", userHandler.Update)
			r.Delete("/api/users/{id}", userHandler.Delete)

			r.Post("/api/projects", projectHandler.Create)
			r.Patch("/api/projects/{id}", projectHandler.Update)
			r.Delete("/api/projects/{id}", projectHandler.Delete)
		})
	})

	return r
}
