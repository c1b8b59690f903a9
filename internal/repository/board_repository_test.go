package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/iti-tech/taskboard-api/internal/repository"
	"github.com/iti-tech/taskboard-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardRepository_CRUD(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	repo := repository.NewBoardRepository(db)

	t.Run("member ids and subtasks round-trip", func(t *testing.T) {
		memberA := uuid.New().String()
		memberB := uuid.New().String()
		task := &domain.BoardTask{
			Title:       "Planejar sprint",
			Description: "Quadro da semana",
			MemberIDs:   []string{memberA, memberB},
			Subtasks: []domain.Subtask{
				{Text: "definir escopo", Completed: true},
				{Text: "estimar tarefas", Completed: false},
			},
			Status: domain.BoardStatusDoing,
		}
		require.NoError(t, repo.Create(context.Background(), task))

		found, err := repo.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{memberA, memberB}, []string(found.MemberIDs))
		require.Len(t, found.Subtasks, 2)
		assert.Equal(t, "definir escopo", found.Subtasks[0].Text)
		assert.True(t, found.Subtasks[0].Completed)
		assert.False(t, found.Subtasks[1].Completed)
		assert.Equal(t, domain.BoardStatusDoing, found.Status)
	})

	t.Run("empty members and subtasks are fine", func(t *testing.T) {
		task := &domain.BoardTask{Title: "Sem detalhes", Status: domain.BoardStatusTodo}
		require.NoError(t, repo.Create(context.Background(), task))

		found, err := repo.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Empty(t, found.MemberIDs)
		assert.Empty(t, found.Subtasks)
	})

	t.Run("update replaces the subtask list", func(t *testing.T) {
		task := &domain.BoardTask{
			Title:    "Com checklist",
			Subtasks: []domain.Subtask{{Text: "antiga", Completed: false}},
			Status:   domain.BoardStatusTodo,
		}
		require.NoError(t, repo.Create(context.Background(), task))

		task.Subtasks = []domain.Subtask{
			{Text: "nova", Completed: true},
			{Text: "outra", Completed: false},
		}
		task.Status = domain.BoardStatusDone
		require.NoError(t, repo.Update(context.Background(), task))

		found, err := repo.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		require.Len(t, found.Subtasks, 2)
		assert.Equal(t, "nova", found.Subtasks[0].Text)
		assert.Equal(t, domain.BoardStatusDone, found.Status)
	})

	t.Run("list returns every board task", func(t *testing.T) {
		tasks, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
	})
}
