package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/utils"
)

const taskIDParam = "task_id"

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task in one of the caller's projects
func (h *TaskHandler) CreateTask(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		ProjectID     uint64 `json:"project_id" binding:"required"`
		Title         string `json:"title" binding:"required,max=50"`
		Description   string `json:"description" binding:"required,max=100"`
		DueDate       string `json:"due_date" binding:"required"`
		PriorityLevel string `json:"priority_level" binding:"required,max=100"`
		Status        string `json:"status" binding:"required"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	dueDate, ok := parseBodyDate(c, "due_date", req.DueDate)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), scope, services.CreateTaskInput{
		ProjectID:     req.ProjectID,
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       dueDate,
		PriorityLevel: req.PriorityLevel,
		Status:        req.Status,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskResponse{Envelope: dto.Created(), Task: dto.ToTaskDTO(*task)})
}

// ListTasks returns one page of the tasks in the caller's projects.
// Supports the project list parameters plus due_date_from/due_date_to.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	page, err := h.taskService.ListTasks(
		c.Request.Context(),
		scope,
		query.FromValues(c.Request.URL.Query()),
		utils.GetPaginationParams(c),
	)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	links := utils.GetPageLinks(c, page)
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page.Items, page.TotalCount, links.Next, links.Previous, dto.ToTaskDTO))
}

// ReplaceTask overwrites every writable field of the task given by ?task_id=
func (h *TaskHandler) ReplaceTask(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	// project_id may be sent but a task never moves between projects.
	type ReplaceTaskRequest struct {
		Title         string `json:"title" binding:"required,max=50"`
		Description   string `json:"description" binding:"required,max=100"`
		DueDate       string `json:"due_date" binding:"required"`
		PriorityLevel string `json:"priority_level" binding:"required,max=100"`
		Status        string `json:"status" binding:"required"`
	}

	var req ReplaceTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	dueDate, ok := parseBodyDate(c, "due_date", req.DueDate)
	if !ok {
		return
	}

	taskID, ok := queryID(c, taskIDParam)
	if !ok {
		apierrors.ResourceNotFound(c, "Task not found")
		return
	}

	task, err := h.taskService.ReplaceTask(c.Request.Context(), scope, taskID, services.ReplaceTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       dueDate,
		PriorityLevel: req.PriorityLevel,
		Status:        req.Status,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{Envelope: dto.OK("Task updated successfully"), Task: dto.ToTaskDTO(*task)})
}

// PatchTask updates the fields present in the body
func (h *TaskHandler) PatchTask(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	taskID, ok := queryID(c, taskIDParam)
	if !ok {
		apierrors.ResourceNotFound(c, "Task not found")
		return
	}

	type PatchTaskRequest struct {
		Title         *string `json:"title" binding:"omitempty,max=50"`
		Description   *string `json:"description" binding:"omitempty,max=100"`
		DueDate       *string `json:"due_date"`
		PriorityLevel *string `json:"priority_level" binding:"omitempty,max=100"`
		Status        *string `json:"status"`
		IsActive      *bool   `json:"is_active"`
	}

	var req PatchTaskRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, ok := parseBodyDate(c, "due_date", *req.DueDate)
		if !ok {
			return
		}
		dueDate = &parsed
	}

	task, err := h.taskService.PatchTask(c.Request.Context(), scope, taskID, services.PatchTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       dueDate,
		PriorityLevel: req.PriorityLevel,
		Status:        req.Status,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{Envelope: dto.OK("Task updated successfully"), Task: dto.ToTaskDTO(*task)})
}

// DeleteTask deletes the task given by ?task_id=
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	taskID, ok := queryID(c, taskIDParam)
	if !ok {
		apierrors.ResourceNotFound(c, "Task not found")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), scope, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("Task deleted successfully"))
}

// GenerateTasks generates task suggestions for a project from free text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		ProjectID uint64 `json:"project_id" binding:"required"`
		Text      string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), scope, services.GenerateTasksInput{
		ProjectID: req.ProjectID,
		Text:      req.Text,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"error": false,
		"code":  constants.CodeOK,
		"tasks": tasks,
	})
}

func respondTaskError(c *gin.Context, err error) {
	if respondQueryError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.ResourceNotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.ResourceNotFound(c, "Project not found")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.ValidationErrorWithDetails(c, invalidBodyMessage, map[string]string{
			"status": "Status should be one of TO_DO, IN_PROGRESS, COMPLETED",
		})
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks),
		errors.Is(err, services.ErrAITooManyTasks):
		apierrors.ValidationError(c, err.Error())
	default:
		internalError(c, err)
	}
}
