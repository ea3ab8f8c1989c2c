package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both missing tasks and tasks in projects owned by someone else.
	ErrTaskNotFound           = errors.New("task not found")
	ErrInvalidStatus          = models.ErrInvalidTaskStatus
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAITooManyTasks         = fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
)

// TaskGenerator turns free text into task suggestions.
type TaskGenerator interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	generator TaskGenerator
	now       func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil when AI is not configured.
func NewTaskService(taskRepo repository.TaskRepository, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		generator: generator,
		now:       time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID     uint64
	Title         string
	Description   string
	DueDate       time.Time
	PriorityLevel string
	Status        string
}

// ReplaceTaskInput carries every writable field of a full update.
// The owning project cannot be changed.
type ReplaceTaskInput struct {
	Title         string
	Description   string
	DueDate       time.Time
	PriorityLevel string
	Status        string
}

// PatchTaskInput carries the fields present in a partial update
type PatchTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	PriorityLevel *string
	Status        *string
	IsActive      *bool
}

// CreateTask creates a task inside a project the caller owns
func (s *TaskService) CreateTask(ctx context.Context, scope auth.Scope, input CreateTaskInput) (*models.Task, error) {
	status := models.TaskStatusTodo
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := models.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	// The scope lists every project the caller owns; anything else looks missing.
	if !scope.OwnsProject(input.ProjectID) {
		return nil, ErrProjectNotFound
	}

	task := &models.Task{
		ProjectID:     input.ProjectID,
		Title:         input.Title,
		Description:   input.Description,
		DueDate:       input.DueDate,
		PriorityLevel: input.PriorityLevel,
		Status:        status,
		IsActive:      true,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(ctx, task.ID)
}

// ListTasks runs the list pipeline over the tasks of the caller's projects
func (s *TaskService) ListTasks(ctx context.Context, scope auth.Scope, params query.Params, page utils.PaginationParams) (utils.Page[models.Task], error) {
	plan, err := query.Build(query.KindTask, params)
	if err != nil {
		return utils.Page[models.Task]{}, err
	}

	tasks, total, err := s.taskRepo.Query(ctx, scope.ProjectIDs, plan, page)
	if err != nil {
		return utils.Page[models.Task]{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	return utils.NewPage(tasks, page, total), nil
}

// ReplaceTask overwrites every writable field; is_active is left untouched
func (s *TaskService) ReplaceTask(ctx context.Context, scope auth.Scope, taskID uint64, input ReplaceTaskInput) (*models.Task, error) {
	status, err := models.ParseTaskStatus(input.Status)
	if err != nil {
		return nil, err
	}

	task, err := s.ownedTask(ctx, scope, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.PriorityLevel = input.PriorityLevel
	task.Status = status

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// PatchTask updates only the fields present in input
func (s *TaskService) PatchTask(ctx context.Context, scope auth.Scope, taskID uint64, input PatchTaskInput) (*models.Task, error) {
	var status *models.TaskStatus
	if input.Status != nil {
		parsed, err := models.ParseTaskStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	task, err := s.ownedTask(ctx, scope, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.PriorityLevel != nil {
		task.PriorityLevel = *input.PriorityLevel
	}
	if status != nil {
		task.Status = *status
	}
	if input.IsActive != nil {
		task.IsActive = *input.IsActive
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task in one of the caller's projects
func (s *TaskService) DeleteTask(ctx context.Context, scope auth.Scope, taskID uint64) error {
	if _, err := s.ownedTask(ctx, scope, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	ProjectID uint64
	Text      string
}

// GenerateTasks asks the generator for task suggestions for one of the caller's projects.
// Suggestions are returned, not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, scope auth.Scope, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}

	if !scope.OwnsProject(input.ProjectID) {
		return nil, ErrProjectNotFound
	}

	text := input.Text
	if runes := []rune(text); len(runes) > constants.MaxAIInputLength {
		text = string(runes[:constants.MaxAIInputLength])
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, ErrAITooManyTasks
	}

	today := s.now().UTC().Format(constants.DateLayout)
	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = truncate(strings.TrimSpace(aiTask.Title), 50)
		if aiTask.Title == "" {
			continue
		}
		aiTask.Description = truncate(strings.TrimSpace(aiTask.Description), 100)
		aiTask.PriorityLevel = truncate(strings.TrimSpace(aiTask.PriorityLevel), 100)

		// Layout-formatted dates compare correctly as strings.
		if aiTask.DueDate != nil {
			if _, err := query.ParseDate(*aiTask.DueDate); err != nil || *aiTask.DueDate < today {
				aiTask.DueDate = nil
			}
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) ownedTask(ctx context.Context, scope auth.Scope, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.Project.UserID != scope.UserID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
