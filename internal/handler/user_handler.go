package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/projecthub/internal/authz"
	"github.com/hitoshi/projecthub/internal/middleware"
	"github.com/hitoshi/projecthub/internal/model"
	"github.com/hitoshi/projecthub/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register は新規ユーザーを登録する。
	Register(ctx context.Context, in user.RegisterInput) (*model.User, error)
	// Get は指定IDのユーザーを取得する。
	Get(ctx context.Context, actor authz.Identity, id string) (*model.User, error)
	// List は全ユーザーの一覧を返す。
	List(ctx context.Context, actor authz.Identity) ([]*model.User, error)
	// Update はユーザー情報を更新する。
	Update(ctx context.Context, actor authz.Identity, id string, in user.UpdateInput) (*model.User, error)
	// Delete はユーザーを削除する。
	Delete(ctx context.Context, actor authz.Identity, id string) error
}

// SessionEstablisher は新規登録直後のセッション発行インターフェース。
// auth.Serviceの部分集合として定義する。
type SessionEstablisher interface {
	EstablishSession(ctx context.Context, userID string) (*model.Session, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service  UserServiceInterface
	sessions SessionEstablisher
	config   AuthHandlerConfig
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, sessions SessionEstablisher, config AuthHandlerConfig) *UserHandler {
	return &UserHandler{
		service:  service,
		sessions: sessions,
		config:   config,
	}
}

// registerRequest は新規登録リクエストのボディ。
// 受け付けるフィールドはここに列挙されたものだけであり、
// admin等の他フィールドを送っても無視される。
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateUserRequest はユーザー更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Admin    *bool   `json:"admin"`
}

// Register は新規ユーザーを登録し、そのままログイン状態にする。
// POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	newUser, err := h.service.Register(r.Context(), user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 登録直後にセッションを発行してログイン状態にする。
	// セッション発行に失敗しても登録自体は成功として扱う。
	if session, err := h.sessions.EstablishSession(r.Context(), newUser.ID); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    session.ID,
			Path:     "/",
			Domain:   h.config.CookieDomain,
			MaxAge:   h.config.SessionMaxAge,
			HttpOnly: true,
			Secure:   h.config.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	writeJSON(w, http.StatusCreated, toUserResponse(newUser))
}

// List は全ユーザーの一覧を取得する。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())

	users, err := h.service.List(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]userResponse, len(users))
	for i, u := range users {
		results[i] = toUserResponse(u)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は指定IDのユーザーを取得する。
// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())
	userID := chi.URLParam(r, "id")

	u, err := h.service.Get(r.Context(), actor, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Update はユーザー情報を更新する。
// PATCH /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())
	userID := chi.URLParam(r, "id")

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	u, err := h.service.Update(r.Context(), actor, userID, user.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Admin:    req.Admin,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Delete はユーザーを削除する。
// DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())
	userID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), actor, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
