// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"net/http"

	"github.com/hitoshi/projecthub/internal/authz"
	"github.com/hitoshi/projecthub/internal/model"
)

const sessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに行為者を格納するためのキー。
var identityContextKey = contextKey("identity")

// IdentityResolver はセッショントークンから行為者を解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) authz.Identity
}

// NewIdentityMiddleware はHTTP Only Cookieからセッショントークンを読み取り、
// 解決した行為者をリクエストコンテキストに注入するミドルウェアを返す。
//
// Cookieが存在しない・セッションが無効な場合は匿名としてリクエストを通す。
// 匿名での閲覧は正常な状態であり、このミドルウェアはリクエストを拒否しない。
// 認証必須ルートのゲートはRequireAuthが担う。
func NewIdentityMiddleware(resolver IdentityResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := authz.Anonymous

			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				identity = resolver.ResolveIdentity(r.Context(), cookie.Value)
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth は匿名リクエストを401で拒否するミドルウェアを返す。
// NewIdentityMiddlewareの後に配置すること。
func RequireAuth() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()).IsAnonymous() {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewLoginRequiredError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext はリクエストコンテキストから行為者を取得する。
// 注入されていない場合は匿名を返す。
func IdentityFromContext(ctx context.Context) authz.Identity {
	identity, ok := ctx.Value(identityContextKey).(authz.Identity)
	if !ok {
		return authz.Anonymous
	}
	return identity
}

// ContextWithIdentity はコンテキストに行為者を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity authz.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
