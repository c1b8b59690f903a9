package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"gorm.io/gorm"
)

type SectorRepository struct {
	db *gorm.DB
}

func NewSectorRepository(db *gorm.DB) *SectorRepository {
	return &SectorRepository{db: db}
}

func (r *SectorRepository) Create(ctx context.Context, sector *domain.Sector) error {
	return r.db.WithContext(ctx).Create(sector).Error
}

func (r *SectorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sector, error) {
	var sector domain.Sector
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sector).Error
	if err != nil {
		return nil, err
	}
	return &sector, nil
}

func (r *SectorRepository) Update(ctx context.Context, sector *domain.Sector) error {
	return r.db.WithContext(ctx).Save(sector).Error
}

func (r *SectorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Sector{}, "id = ?", id).Error
}

func (r *SectorRepository) List(ctx context.Context) ([]domain.Sector, error) {
	var sectors []domain.Sector
	err := r.db.WithContext(ctx).Order("name ASC").Find(&sectors).Error
	return sectors, err
}
