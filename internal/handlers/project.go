package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/utils"
)

const projectIDParam = "project_id"

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=300"`
		Description string `json:"description" binding:"required"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), scope.UserID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ProjectResponse{Envelope: dto.Created(), Project: dto.ToProjectDTO(*project)})
}

// ListProjects returns one page of the caller's projects.
// Supports sort_by, search, created_date_from/created_date_to and page.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	page, err := h.projectService.ListProjects(
		c.Request.Context(),
		scope,
		query.FromValues(c.Request.URL.Query()),
		utils.GetPaginationParams(c),
	)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	links := utils.GetPageLinks(c, page)
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page.Items, page.TotalCount, links.Next, links.Previous, dto.ToProjectDTO))
}

// ReplaceProject overwrites name and description of the project given by ?project_id=
func (h *ProjectHandler) ReplaceProject(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	type ReplaceProjectRequest struct {
		Name        string `json:"name" binding:"required,max=300"`
		Description string `json:"description" binding:"required"`
	}

	var req ReplaceProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	projectID, ok := queryID(c, projectIDParam)
	if !ok {
		apierrors.ResourceNotFound(c, "Project not found")
		return
	}

	project, err := h.projectService.ReplaceProject(c.Request.Context(), scope, projectID, services.ReplaceProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectResponse{Envelope: dto.OK("Project updated successfully"), Project: dto.ToProjectDTO(*project)})
}

// PatchProject updates the fields present in the body
func (h *ProjectHandler) PatchProject(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	projectID, ok := queryID(c, projectIDParam)
	if !ok {
		apierrors.ResourceNotFound(c, "Project not found")
		return
	}

	type PatchProjectRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=300"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}

	var req PatchProjectRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	project, err := h.projectService.PatchProject(c.Request.Context(), scope, projectID, services.PatchProjectInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectResponse{Envelope: dto.OK("Project updated successfully"), Project: dto.ToProjectDTO(*project)})
}

// DeleteProject deletes a project and all of its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	projectID, ok := queryID(c, projectIDParam)
	if !ok {
		apierrors.ResourceNotFound(c, "Project not found")
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), scope, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("Project deleted successfully"))
}

func respondProjectError(c *gin.Context, err error) {
	if respondQueryError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.ResourceNotFound(c, "Project not found")
	default:
		internalError(c, err)
	}
}
