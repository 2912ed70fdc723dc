package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/projecthub/internal/authz"
	"github.com/hitoshi/projecthub/internal/middleware"
	"github.com/hitoshi/projecthub/internal/model"
	"github.com/hitoshi/projecthub/internal/project"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	// Create は新規プロジェクトを作成する。作成者が所有者になる。
	Create(ctx context.Context, actor authz.Identity, in project.CreateInput) (*model.Project, error)
	// Get は指定IDのプロジェクトを取得する。匿名でも閲覧できる。
	Get(ctx context.Context, actor authz.Identity, id string) (*model.Project, error)
	// List は全プロジェクトの一覧を返す。匿名でも閲覧できる。
	List(ctx context.Context, actor authz.Identity) ([]*model.Project, error)
	// Update はプロジェクト情報を更新する。所有者または管理者のみ。
	Update(ctx context.Context, actor authz.Identity, id string, in project.UpdateInput) (*model.Project, error)
	// Delete はプロジェクトを削除する。所有者または管理者のみ。
	Delete(ctx context.Context, actor authz.Identity, id string) error
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

// createProjectRequest はプロジェクト作成リクエストのボディ。
// 所有者は行為者から決まるため含めない。
type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// updateProjectRequest はプロジェクト更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create は新規プロジェクトを作成する。
// POST /api/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	p, err := h.service.Create(r.Context(), actor, project.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

// List は全プロジェクトの一覧を取得する。匿名でも閲覧できる。
// GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())

	projects, err := h.service.List(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]projectResponse, len(projects))
	for i, p := range projects {
		results[i] = toProjectResponse(p)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は指定IDのプロジェクトを取得する。匿名でも閲覧できる。
// GET /api/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())
	projectID := chi.URLParam(r, "id")

	p, err := h.service.Get(r.Context(), actor, projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// Update はプロジェクト情報を更新する。
// PATCH /api/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())
	projectID := chi.URLParam(r, "id")

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	p, err := h.service.Update(r.Context(), actor, projectID, project.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// Delete はプロジェクトを削除する。
// DELETE /api/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.IdentityFromContext(r.Context())
	projectID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), actor, projectID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
