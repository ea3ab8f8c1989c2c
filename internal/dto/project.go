package dto

import "github.com/yukikurage/project-task-api/internal/models"

// UserSummaryDTO is the owner as shown inside a project
type UserSummaryDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64         `json:"id"`
	User        UserSummaryDTO `json:"user"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   Date           `json:"created_at"`
	UpdatedAt   Date           `json:"updated_at"`
	IsActive    bool           `json:"is_active"`
}

// ProjectResponse wraps a single project
type ProjectResponse struct {
	Envelope
	Project ProjectDTO `json:"project"`
}

// ToProjectDTO converts a Project model, with its User preloaded, to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID: project.ID,
		User: UserSummaryDTO{
			Username: project.User.Username,
			Email:    project.User.Email,
		},
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   Date(project.CreatedAt),
		UpdatedAt:   Date(project.UpdatedAt),
		IsActive:    project.IsActive,
	}
}
