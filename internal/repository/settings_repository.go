package repository

import (
	"context"
	"errors"

	"github.com/iti-tech/taskboard-api/internal/domain"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the singleton settings row, creating it empty when missing
func (r *SettingsRepository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	var settings domain.SystemSettings
	err := r.db.WithContext(ctx).Where("id = ?", domain.SystemSettingsID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = domain.SystemSettings{ID: domain.SystemSettingsID}
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) Update(ctx context.Context, settings *domain.SystemSettings) error {
	settings.ID = domain.SystemSettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}
