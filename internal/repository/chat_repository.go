package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns the full conversation in creation order
func (r *ChatRepository) ListMessages(ctx context.Context) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// ListRecentMessages returns the newest limit messages in creation order
func (r *ChatRepository) ListRecentMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// reverse back into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetLock returns the singleton turn lock row, creating it unlocked if the
// seed row is missing
func (r *ChatRepository) GetLock(ctx context.Context) (*domain.ChatTurnLock, error) {
	var lock domain.ChatTurnLock
	err := r.db.WithContext(ctx).Where("id = ?", domain.ChatTurnLockID).First(&lock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		lock = domain.ChatTurnLock{ID: domain.ChatTurnLockID}
		if err := r.db.WithContext(ctx).Create(&lock).Error; err != nil {
			return nil, err
		}
		return &lock, nil
	}
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

// SetLock unconditionally writes the lock state. This is the observed claim
// behavior: two concurrent claimants can both succeed, each believing it
// holds the lock exclusively.
func (r *ChatRepository) SetLock(ctx context.Context, locked bool, userID *uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.ChatTurnLock{}).
		Where("id = ?", domain.ChatTurnLockID).
		Select("IsLocked", "LockedByUserID", "UpdatedAt").
		Updates(map[string]interface{}{
			"is_locked":         locked,
			"locked_by_user_id": userID,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// ClaimIfUnlocked performs a conditional claim: the update matches only when
// the row is currently unlocked, so the store arbitrates concurrent
// claimants. Returns false when the lock was already held.
func (r *ChatRepository) ClaimIfUnlocked(ctx context.Context, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.ChatTurnLock{}).
		Where("id = ? AND is_locked = ?", domain.ChatTurnLockID, false).
		Updates(map[string]interface{}{
			"is_locked":         true,
			"locked_by_user_id": userID,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
