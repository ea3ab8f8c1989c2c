package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access.
// Every read is restricted to the owner IDs it is given.
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID with its owner preloaded
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// Query returns one page of the projects owned by ownerIDs plus the total match count
	Query(ctx context.Context, ownerIDs []uint64, plan query.Plan, params utils.PaginationParams) ([]models.Project, int64, error)

	// ListIDsByOwner lists the IDs of every project owned by userID
	ListIDsByOwner(ctx context.Context, userID uint64) ([]uint64, error)

	// Update saves every column of the project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project and its tasks in one transaction
	Delete(ctx context.Context, id uint64) error
}

// TaskRepository defines the interface for task data access.
// Every read is restricted to the project IDs it is given.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with its project and the project owner preloaded
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// Query returns one page of the tasks in projectIDs plus the total match count
	Query(ctx context.Context, projectIDs []uint64, plan query.Plan, params utils.PaginationParams) ([]models.Task, int64, error)

	// Update saves every column of the task
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task
	Delete(ctx context.Context, id uint64) error
}
