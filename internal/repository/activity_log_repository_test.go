package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/iti-tech/taskboard-api/internal/repository"
	"github.com/iti-tech/taskboard-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLogs(t *testing.T, db *gorm.DB, n int) {
	base := time.Now().Add(-time.Hour)
	userID := uuid.New()
	for i := 0; i < n; i++ {
		entry := &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.LogActionCreate,
			Description: fmt.Sprintf("entrada %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(entry).Error)
	}
}

func TestActivityLogRepository_ListRecent(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	repo := repository.NewActivityLogRepository(db)
	seedLogs(t, db, 15)

	entries, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 10)

	// newest first, and nothing older than the cap
	assert.Equal(t, "entrada 14", entries[0].Description)
	assert.Equal(t, "entrada 5", entries[9].Description)
}

func TestActivityLogRepository_Prune(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	repo := repository.NewActivityLogRepository(db)

	t.Run("removes everything beyond the newest keep rows", func(t *testing.T) {
		seedLogs(t, db, 15)

		pruned, err := repo.Prune(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, int64(5), pruned)

		entries, err := repo.ListRecent(context.Background(), 100)
		require.NoError(t, err)
		require.Len(t, entries, 10)
		assert.Equal(t, "entrada 14", entries[0].Description)
		assert.Equal(t, "entrada 5", entries[9].Description, "the oldest survivors are the newest 10")
	})

	t.Run("no-op below the threshold", func(t *testing.T) {
		pruned, err := repo.Prune(context.Background(), 50)
		require.NoError(t, err)
		assert.Zero(t, pruned)
	})
}
