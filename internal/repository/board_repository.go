package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, task *domain.BoardTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BoardTask, error) {
	var task domain.BoardTask
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *BoardRepository) Update(ctx context.Context, task *domain.BoardTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.BoardTask{}, "id = ?", id).Error
}

func (r *BoardRepository) List(ctx context.Context) ([]domain.BoardTask, error) {
	var tasks []domain.BoardTask
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&tasks).Error
	return tasks, err
}
