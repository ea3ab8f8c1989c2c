package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

// ErrProjectNotFound covers both missing projects and projects owned by someone else.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
}

// ReplaceProjectInput carries every writable field of a full update
type ReplaceProjectInput struct {
	Name        string
	Description string
}

// PatchProjectInput carries the fields present in a partial update
type PatchProjectInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CreateProject creates a project owned by ownerID
func (s *ProjectService) CreateProject(ctx context.Context, ownerID uint64, input CreateProjectInput) (*models.Project, error) {
	project := &models.Project{
		UserID:      ownerID,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(ctx, project.ID)
}

// ListProjects runs the list pipeline over the caller's projects
func (s *ProjectService) ListProjects(ctx context.Context, scope auth.Scope, params query.Params, page utils.PaginationParams) (utils.Page[models.Project], error) {
	plan, err := query.Build(query.KindProject, params)
	if err != nil {
		return utils.Page[models.Project]{}, err
	}

	projects, total, err := s.projectRepo.Query(ctx, []uint64{scope.UserID}, plan, page)
	if err != nil {
		return utils.Page[models.Project]{}, fmt.Errorf("failed to list projects: %w", err)
	}

	return utils.NewPage(projects, page, total), nil
}

// ReplaceProject overwrites name and description; is_active is left untouched
func (s *ProjectService) ReplaceProject(ctx context.Context, scope auth.Scope, projectID uint64, input ReplaceProjectInput) (*models.Project, error) {
	project, err := s.ownedProject(ctx, scope, projectID)
	if err != nil {
		return nil, err
	}

	project.Name = input.Name
	project.Description = input.Description

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// PatchProject updates only the fields present in input
func (s *ProjectService) PatchProject(ctx context.Context, scope auth.Scope, projectID uint64, input PatchProjectInput) (*models.Project, error) {
	project, err := s.ownedProject(ctx, scope, projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject deletes a project together with its tasks
func (s *ProjectService) DeleteProject(ctx context.Context, scope auth.Scope, projectID uint64) error {
	if _, err := s.ownedProject(ctx, scope, projectID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

func (s *ProjectService) ownedProject(ctx context.Context, scope auth.Scope, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if project.UserID != scope.UserID {
		return nil, ErrProjectNotFound
	}

	return project, nil
}
