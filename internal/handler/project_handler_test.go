package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/projecthub/internal/authz"
	"github.com/hitoshi/projecthub/internal/model"
	"github.com/hitoshi/projecthub/internal/project"
)

// mockProjectService はProjectServiceInterfaceのモック実装。
type mockProjectService struct {
	createFunc func(ctx context.Context, actor authz.Identity, in project.CreateInput) (*model.Project, error)
	getFunc    func(ctx context.Context, actor authz.Identity, id string) (*model.Project, error)
	listFunc   func(ctx context.Context, actor authz.Identity) ([]*model.Project, error)
	updateFunc func(ctx context.Context, actor authz.Identity, id string, in project.UpdateInput) (*model.Project, error)
	deleteFunc func(ctx context.Context, actor authz.Identity, id string) error
}

func (m *mockProjectService) Create(ctx context.Context, actor authz.Identity, in project.CreateInput) (*model.Project, error) {
	return m.createFunc(ctx, actor, in)
}

func (m *mockProjectService) Get(ctx context.Context, actor authz.Identity, id string) (*model.Project, error) {
	return m.getFunc(ctx, actor, id)
}

func (m *mockProjectService) List(ctx context.Context, actor authz.Identity) ([]*model.Project, error) {
	return m.listFunc(ctx, actor)
}

func (m *mockProjectService) Update(ctx context.Context, actor authz.Identity, id string, in project.UpdateInput) (*model.Project, error) {
	return m.updateFunc(ctx, actor, id, in)
}

func (m *mockProjectService) Delete(ctx context.Context, actor authz.Identity, id string) error {
	return m.deleteFunc(ctx, actor, id)
}

func newProjectTestRouter(h *ProjectHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/projects", h.Create)
	r.Get("/api/projects", h.List)
	r.Get("/api/projects/{id}", h.Get)
	r.Patch("/api/projects/{id}", h.Update)
	r.Delete("/api/projects/{id}", h.Delete)
	return r
}

// TestProjectHandler_Create は作成が201を返すことを検証する。
func TestProjectHandler_Create(t *testing.T) {
	service := &mockProjectService{
		createFunc: func(ctx context.Context, actor authz.Identity, in project.CreateInput) (*model.Project, error) {
			if actor.UserID != "user-1" {
				t.Errorf("actor = %+v, want user-1", actor)
			}
			return &model.Project{ID: "project-1", Name: in.Name, Description: in.Description, OwnerID: actor.UserID}, nil
		},
	}
	h := NewProjectHandler(service)
	router := newProjectTestRouter(h)

	body := `{"name":"社内ポータル","description":"社内向けポータルサイトの開発"}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(body)), authz.Identity{UserID: "user-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var projectBody projectResponse
	if err := json.NewDecoder(rec.Body).Decode(&projectBody); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if projectBody.OwnerID != "user-1" {
		t.Errorf("OwnerID = %s, want user-1", projectBody.OwnerID)
	}
}

// TestProjectHandler_Create_Failures は作成失敗のステータスコードを検証する。
func TestProjectHandler_Create_Failures(t *testing.T) {
	tests := []struct {
		name       string
		createErr  error
		wantStatus int
	}{
		{"匿名は401", model.NewLoginRequiredError(), http.StatusUnauthorized},
		{"名前重複は409", model.NewProjectNameTakenError("社内ポータル"), http.StatusConflict},
		{"バリデーション失敗は422", model.NewValidationError("name", "プロジェクト名は必須です"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockProjectService{
				createFunc: func(ctx context.Context, actor authz.Identity, in project.CreateInput) (*model.Project, error) {
					return nil, tt.createErr
				},
			}
			h := NewProjectHandler(service)
			router := newProjectTestRouter(h)

			body := `{"name":"社内ポータル","description":"説明"}`
			req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// TestProjectHandler_Get は匿名でもプロジェクトを取得できることを検証する。
func TestProjectHandler_Get(t *testing.T) {
	service := &mockProjectService{
		getFunc: func(ctx context.Context, actor authz.Identity, id string) (*model.Project, error) {
			if id != "project-1" {
				return nil, model.NewProjectNotFoundError(id)
			}
			return &model.Project{ID: id, Name: "社内ポータル", OwnerID: "user-1"}, nil
		},
	}
	h := NewProjectHandler(service)
	router := newProjectTestRouter(h)

	// 匿名で取得できる
	req := httptest.NewRequest(http.MethodGet, "/api/projects/project-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	// 存在しないプロジェクトは404
	req = httptest.NewRequest(http.MethodGet, "/api/projects/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestProjectHandler_List は匿名でも一覧を取得できることを検証する。
func TestProjectHandler_List(t *testing.T) {
	service := &mockProjectService{
		listFunc: func(ctx context.Context, actor authz.Identity) ([]*model.Project, error) {
			return []*model.Project{
				{ID: "project-1", Name: "社内ポータル"},
				{ID: "project-2", Name: "モバイルアプリ"},
			}, nil
		},
	}
	h := NewProjectHandler(service)
	router := newProjectTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var projects []projectResponse
	if err := json.NewDecoder(rec.Body).Decode(&projects); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("len(projects) = %d, want 2", len(projects))
	}
}

// TestProjectHandler_Update は更新のステータスコードを検証する。
func TestProjectHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		updateErr  error
		wantStatus int
	}{
		{"成功は200", nil, http.StatusOK},
		{"権限なしは403", model.NewNotAuthorizedError(), http.StatusForbidden},
		{"存在しないプロジェクトは404", model.NewProjectNotFoundError("project-1"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockProjectService{
				updateFunc: func(ctx context.Context, actor authz.Identity, id string, in project.UpdateInput) (*model.Project, error) {
					if tt.updateErr != nil {
						return nil, tt.updateErr
					}
					return &model.Project{ID: id, Name: *in.Name}, nil
				},
			}
			h := NewProjectHandler(service)
			router := newProjectTestRouter(h)

			body := `{"name":"更新後の名前"}`
			req := withIdentity(httptest.NewRequest(http.MethodPatch, "/api/projects/project-1", strings.NewReader(body)), authz.Identity{UserID: "user-1"})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// TestProjectHandler_Delete は削除が204を返すことを検証する。
func TestProjectHandler_Delete(t *testing.T) {
	deleted := ""
	service := &mockProjectService{
		deleteFunc: func(ctx context.Context, actor authz.Identity, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewProjectHandler(service)
	router := newProjectTestRouter(h)

	req := withIdentity(httptest.NewRequest(http.MethodDelete, "/api/projects/project-1", nil), authz.Identity{UserID: "user-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if deleted != "project-1" {
		t.Errorf("deleted = %q, want project-1", deleted)
	}
}
