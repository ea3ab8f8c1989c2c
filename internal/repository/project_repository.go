package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/query"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("User", "Tasks").Create(project).Error
}

// FindByID finds a project by ID with its owner preloaded
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("User").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Query returns one page of the projects owned by ownerIDs plus the total match count
func (r *GormProjectRepository) Query(ctx context.Context, ownerIDs []uint64, plan query.Plan, params utils.PaginationParams) ([]models.Project, int64, error) {
	if len(ownerIDs) == 0 {
		return []models.Project{}, 0, nil
	}

	filtered := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Project{}).Scopes(database.FilterScope(plan, ownerIDs))
	}

	// Counted without ORDER BY, which PostgreSQL rejects on aggregates.
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if total == 0 || !params.InRange() {
		return []models.Project{}, total, nil
	}

	var projects []models.Project
	if err := filtered().
		Scopes(database.OrderScope(plan), database.Paginate(params)).
		Preload("User").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListIDsByOwner lists the IDs of every project owned by userID
func (r *GormProjectRepository) ListIDsByOwner(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := []uint64{}
	if err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update saves every column of the project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("User", "Tasks").Save(project).Error
}

// Delete deletes a project and its tasks in one transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
