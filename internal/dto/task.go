package dto

import "github.com/yukikurage/project-task-api/internal/models"

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64            `json:"id"`
	Project       ProjectDTO        `json:"project"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	DueDate       Date              `json:"due_date"`
	PriorityLevel string            `json:"priority_level"`
	Status        models.TaskStatus `json:"status"`
	CreatedAt     Date              `json:"created_at"`
	UpdatedAt     Date              `json:"updated_at"`
	IsActive      bool              `json:"is_active"`
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Envelope
	Task TaskDTO `json:"task"`
}

// ToTaskDTO converts a Task model, with Project and Project.User preloaded, to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:            task.ID,
		Project:       ToProjectDTO(task.Project),
		Title:         task.Title,
		Description:   task.Description,
		DueDate:       Date(task.DueDate),
		PriorityLevel: task.PriorityLevel,
		Status:        task.Status,
		CreatedAt:     Date(task.CreatedAt),
		UpdatedAt:     Date(task.UpdatedAt),
		IsActive:      task.IsActive,
	}
}
