package repository

import (
	"context"

	"github.com/iti-tech/taskboard-api/internal/domain"
	"gorm.io/gorm"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Append inserts one audit trail entry. The table is append-only: entries
// are never updated, only pruned by the retention job.
func (r *ActivityLogRepository) Append(ctx context.Context, entry *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent returns the most recent entries, newest first, capped to limit
func (r *ActivityLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	var entries []domain.ActivityLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Prune deletes every entry beyond the newest keep rows and returns how
// many were removed
func (r *ActivityLogRepository) Prune(ctx context.Context, keep int) (int64, error) {
	sub := r.db.WithContext(ctx).Model(&domain.ActivityLog{}).
		Select("id").
		Order("created_at DESC").
		Limit(keep)
	result := r.db.WithContext(ctx).
		Where("id NOT IN (?)", sub).
		Delete(&domain.ActivityLog{})
	return result.RowsAffected, result.Error
}
