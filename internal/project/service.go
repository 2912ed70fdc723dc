// Package project はプロジェクト管理のドメインロジックを提供する。
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/projecthub/internal/authz"
	"github.com/hitoshi/projecthub/internal/model"
	"github.com/hitoshi/projecthub/internal/repository"
)

// Sanitizer はユーザー入力テキストのサニタイズインターフェース。
type Sanitizer interface {
	Sanitize(input string) string
}

// Service はプロジェクト管理のサービス層。
// 閲覧は誰でも可能、作成はログインユーザー、変更・削除は所有者または管理者に限る。
type Service struct {
	projectRepo repository.ProjectRepository
	sanitizer   Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(projectRepo repository.ProjectRepository, sanitizer Sanitizer) *Service {
	return &Service{
		projectRepo: projectRepo,
		sanitizer:   sanitizer,
	}
}

// CreateInput はプロジェクト作成の入力。所有者は行為者から決まるため含めない。
type CreateInput struct {
	Name        string
	Description string
}

// UpdateInput はプロジェクト更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Name        *string
	Description *string
}

// Create は新規プロジェクトを作成する。ログイン必須。
// 作成者が自動的に所有者になる。名前・説明は必須で、
// 同一所有者内で名前が重複する場合はバリデーションエラーを返す。
func (s *Service) Create(ctx context.Context, actor authz.Identity, in CreateInput) (*model.Project, error) {
	if err := authz.Check(actor, authz.ActionCreateProject, authz.Target{}); err != nil {
		return nil, err
	}

	name := s.sanitizer.Sanitize(in.Name)
	description := s.sanitizer.Sanitize(in.Description)

	if name == "" {
		return nil, model.NewValidationError("name", "プロジェクト名は必須です")
	}
	if description == "" {
		return nil, model.NewValidationError("description", "説明は必須です")
	}

	now := time.Now()
	project := &model.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		OwnerID:     actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateProjectName) {
			return nil, model.NewProjectNameTakenError(name)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	slog.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("owner_id", project.OwnerID),
	)

	return project, nil
}

// Get は指定IDのプロジェクトを取得する。匿名でも閲覧できる。
func (s *Service) Get(ctx context.Context, actor authz.Identity, id string) (*model.Project, error) {
	if err := authz.Check(actor, authz.ActionViewProject, authz.Target{}); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(id)
	}

	return project, nil
}

// List は全プロジェクトの一覧を返す。匿名でも閲覧できる。
func (s *Service) List(ctx context.Context, actor authz.Identity) ([]*model.Project, error) {
	if err := authz.Check(actor, authz.ActionListProjects, authz.Target{}); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// Update はプロジェクト情報を更新する。所有者または管理者のみ実行できる。
func (s *Service) Update(ctx context.Context, actor authz.Identity, id string, in UpdateInput) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(id)
	}

	if err := authz.Check(actor, authz.ActionEditProject, authz.Target{OwnerID: project.OwnerID}); err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := s.sanitizer.Sanitize(*in.Name)
		if name == "" {
			return nil, model.NewValidationError("name", "プロジェクト名は必須です")
		}
		project.Name = name
	}

	if in.Description != nil {
		description := s.sanitizer.Sanitize(*in.Description)
		if description == "" {
			return nil, model.NewValidationError("description", "説明は必須です")
		}
		project.Description = description
	}

	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateProjectName) {
			return nil, model.NewProjectNameTakenError(project.Name)
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	slog.Info("project updated",
		slog.String("project_id", project.ID),
		slog.String("actor_id", actor.UserID),
	)

	return project, nil
}

// Delete はプロジェクトを削除する。所有者または管理者のみ実行できる。
func (s *Service) Delete(ctx context.Context, actor authz.Identity, id string) error {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return model.NewProjectNotFoundError(id)
	}

	if err := authz.Check(actor, authz.ActionDeleteProject, authz.Target{OwnerID: project.OwnerID}); err != nil {
		return err
	}

	if err := s.projectRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	slog.Info("project deleted",
		slog.String("project_id", id),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}
