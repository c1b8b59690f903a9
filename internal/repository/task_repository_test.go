package repository_test

import (
	"context"
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

func createTestTask(t *testing.T, db *gorm.DB, project *domain.Project, user *domain.User, planned string) *domain.Task {
	task := &domain.Task{
		ProjectID:       project.ID,
		CollaboratorID:  user.ID,
		Sector:          "Desenvolvimento",
		PlannedActivity: planned,
		Priority:        domain.PriorityMedium,
		Status:          domain.TaskStatusPending,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTaskRepository_CRUD(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	repo := repository.NewTaskRepository(db)
	sector := testutil.CreateTestSector(t, db, "Desenvolvimento")
	project := testutil.CreateTestProject(t, db, "Portal", sector)
	user := testutil.CreateTestUser(t, db, "Ana", "ana@ititech.com.br")

	t.Run("create assigns an id", func(t *testing.T) {
		task := &domain.Task{
			ProjectID:       project.ID,
			CollaboratorID:  user.ID,
			PlannedActivity: "Implementar login",
			Priority:        domain.PriorityHigh,
			Status:          domain.TaskStatusPending,
			HoursDedicated:  "01:30",
		}
		require.NoError(t, repo.Create(context.Background(), task))
		assert.NotEqual(t, uuid.Nil, task.ID)
	})

	t.Run("get by id round-trips the fields", func(t *testing.T) {
		dueDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		task := createTestTask(t, db, project, user, "Com prazo")
		task.DueDate = &dueDate
		require.NoError(t, repo.Update(context.Background(), task))

		found, err := repo.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Com prazo", found.PlannedActivity)
		require.NotNil(t, found.DueDate)
		assert.Equal(t, dueDate.Format("2006-01-02"), found.DueDate.Format("2006-01-02"))
	})

	t.Run("get missing task returns record not found", func(t *testing.T) {
		_, err := repo.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		task := createTestTask(t, db, project, user, "Efêmera")
		require.NoError(t, repo.Delete(context.Background(), task.ID))

		_, err := repo.GetByID(context.Background(), task.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestTaskRepository_List(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	repo := repository.NewTaskRepository(db)
	sector := testutil.CreateTestSector(t, db, "Desenvolvimento")
	project := testutil.CreateTestProject(t, db, "Portal", sector)
	ana := testutil.CreateTestUser(t, db, "Ana", "ana@ititech.com.br")
	bruno := testutil.CreateTestUser(t, db, "Bruno", "bruno@ititech.com.br")

	first := createTestTask(t, db, project, ana, "primeira")
	createTestTask(t, db, project, bruno, "segunda")

	// touch the first task so it becomes the most recently updated
	time.Sleep(10 * time.Millisecond)
	first.Notes = "atualizada"
	require.NoError(t, repo.Update(context.Background(), first))

	t.Run("list orders by most recently updated", func(t *testing.T) {
		tasks, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "primeira", tasks[0].PlannedActivity)
	})

	t.Run("list by collaborator filters", func(t *testing.T) {
		tasks, err := repo.ListByCollaborator(context.Background(), bruno.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "segunda", tasks[0].PlannedActivity)
	})

	t.Run("counts by project and collaborator", func(t *testing.T) {
		count, err := repo.CountByProject(context.Background(), project.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.CountByCollaborator(context.Background(), ana.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.CountByProject(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("search matches planned, delivered and notes", func(t *testing.T) {
		tasks, err := repo.Search(context.Background(), "ATUALIZADA", 10)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, first.ID, tasks[0].ID)
	})
}
