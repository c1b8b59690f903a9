package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

// List returns every task, most recently updated first (the store's default
// ordering, which the CSV export depends on)
func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) ListByCollaborator(ctx context.Context, collaboratorID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("collaborator_id = ?", collaboratorID).
		Order("updated_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) CountByCollaborator(ctx context.Context, collaboratorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("collaborator_id = ?", collaboratorID).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Task, error) {
	var tasks []domain.Task
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(planned_activity) LIKE ? OR LOWER(delivered_activity) LIKE ? OR LOWER(notes) LIKE ?",
			searchPattern, searchPattern, searchPattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}
