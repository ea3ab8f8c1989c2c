package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Project").Create(task).Error
}

// FindByID finds a task by ID with its project and the project owner preloaded
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Project.User").
		First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Query returns one page of the tasks in projectIDs plus the total match count
func (r *GormTaskRepository) Query(ctx context.Context, projectIDs []uint64, plan query.Plan, params utils.PaginationParams) ([]models.Task, int64, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, 0, nil
	}

	filtered := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Task{}).Scopes(database.FilterScope(plan, projectIDs))
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if total == 0 || !params.InRange() {
		return []models.Task{}, total, nil
	}

	var tasks []models.Task
	if err := filtered().
		Scopes(database.OrderScope(plan), database.Paginate(params)).
		Preload("Project").
		Preload("Project.User").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves every column of the task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Project").Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Task{}, id).Error
}
