package repository

import (
	"gorm.io/gorm"

	"teamdash/internal/database"
	"teamdash/internal/models"
	"teamdash/internal/utils"
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
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.VisibleTo != nil {
		memberTeams := r.db.Model(&models.TeamMember{}).
			Select("team_id").
			Where("user_id = ?", *filter.VisibleTo)
		query = query.Where("tasks.owner_id = ? OR tasks.team_id IN (?)", *filter.VisibleTo, memberTeams)
	}
	if filter.OwnerID != nil {
		query = query.Where("tasks.owner_id = ?", *filter.OwnerID)
	}
	if filter.TeamID != nil {
		query = query.Where("tasks.team_id = ?", *filter.TeamID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (filter.Page - 1) * filter.PageSize,
			Limit:  filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Owner").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
