package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func setupActionService(t *testing.T, st *countingStore) (*cache.Service, cache.Actor) {
	t.Helper()
	svc := newTestService(st)
	require.NoError(t, svc.Initialize(context.Background()))
	return svc, cache.Actor{ID: uuid.New(), Name: "Ana"}
}

func seedProjectWithSector(st *countingStore) (domain.Sector, domain.Project) {
	sector := domain.Sector{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Desenvolvimento"}
	project := domain.Project{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Portal", SectorID: sector.ID}
	st.sectors = []domain.Sector{sector}
	st.projects = []domain.Project{project}
	return sector, project
}

func TestService_CreateTask(t *testing.T) {
	t.Run("stamps the denormalized sector name and defaults", func(t *testing.T) {
		st := newCountingStore()
		_, project := seedProjectWithSector(st)
		svc, actor := setupActionService(t, st)

		task, err := svc.CreateTask(context.Background(), actor, domain.CreateTaskRequest{
			ProjectID:       project.ID,
			CollaboratorID:  uuid.New(),
			PlannedActivity: "Implementar login",
		})
		require.NoError(t, err)

		assert.Equal(t, "Desenvolvimento", task.Sector)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.Equal(t, domain.TaskStatusPending, task.Status)

		// the mutation lands in the audit trail and the snapshot refreshes
		require.Len(t, st.logs, 1)
		assert.Equal(t, domain.LogActionCreate, st.logs[0].Action)
		assert.Contains(t, st.logs[0].Description, "Ana")
		assert.Contains(t, st.logs[0].Description, "Implementar login")
		assert.Len(t, svc.Snapshot().Tasks, 1)
	})

	t.Run("unknown project yields an empty sector name", func(t *testing.T) {
		st := newCountingStore()
		svc, actor := setupActionService(t, st)

		task, err := svc.CreateTask(context.Background(), actor, domain.CreateTaskRequest{
			ProjectID:       uuid.New(),
			CollaboratorID:  uuid.New(),
			PlannedActivity: "Tarefa órfã",
		})
		require.NoError(t, err)
		assert.Empty(t, task.Sector)
	})

	t.Run("store failure surfaces a localized write error", func(t *testing.T) {
		st := newCountingStore()
		st.createTaskErr = errors.New("connection reset")
		svc, actor := setupActionService(t, st)

		_, err := svc.CreateTask(context.Background(), actor, domain.CreateTaskRequest{
			ProjectID:       uuid.New(),
			CollaboratorID:  uuid.New(),
			PlannedActivity: "Nunca criada",
		})
		require.Error(t, err)

		var writeFailure *domain.WriteFailureError
		require.ErrorAs(t, err, &writeFailure)
		assert.Equal(t, "Erro ao criar tarefa", writeFailure.Operation)
		assert.Empty(t, st.logs, "failed writes must not be audited")
	})
}

func TestService_UpdateTask(t *testing.T) {
	t.Run("present fields replace, absent fields are preserved", func(t *testing.T) {
		st := newCountingStore()
		existing := domain.Task{
			BaseModel:       domain.BaseModel{ID: uuid.New()},
			ProjectID:       uuid.New(),
			CollaboratorID:  uuid.New(),
			PlannedActivity: "Original",
			Notes:           "observação antiga",
			Priority:        domain.PriorityHigh,
			Status:          domain.TaskStatusInProgress,
		}
		st.tasks = []domain.Task{existing}
		svc, actor := setupActionService(t, st)

		updated, err := svc.UpdateTask(context.Background(), actor, existing.ID, domain.UpdateTaskRequest{
			PlannedActivity: strPtr("Atualizada"),
			Notes:           strPtr(""), // present empty string clears the field
		})
		require.NoError(t, err)

		assert.Equal(t, "Atualizada", updated.PlannedActivity)
		assert.Empty(t, updated.Notes)
		assert.Equal(t, domain.PriorityHigh, updated.Priority, "absent fields keep their value")
		assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	})

	t.Run("changing the project re-stamps the sector", func(t *testing.T) {
		st := newCountingStore()
		_, project := seedProjectWithSector(st)
		existing := domain.Task{
			BaseModel:      domain.BaseModel{ID: uuid.New()},
			ProjectID:      uuid.New(),
			CollaboratorID: uuid.New(),
			Sector:         "Antigo",
		}
		st.tasks = []domain.Task{existing}
		svc, actor := setupActionService(t, st)

		updated, err := svc.UpdateTask(context.Background(), actor, existing.ID, domain.UpdateTaskRequest{
			ProjectID: &project.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Desenvolvimento", updated.Sector)
	})

	t.Run("unknown task returns not found", func(t *testing.T) {
		st := newCountingStore()
		svc, actor := setupActionService(t, st)

		_, err := svc.UpdateTask(context.Background(), actor, uuid.New(), domain.UpdateTaskRequest{})
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})
}

func TestService_ToggleTaskCompletion(t *testing.T) {
	newTask := func(status domain.TaskStatus, planned, delivered string) domain.Task {
		return domain.Task{
			BaseModel:         domain.BaseModel{ID: uuid.New()},
			ProjectID:         uuid.New(),
			CollaboratorID:    uuid.New(),
			PlannedActivity:   planned,
			DeliveredActivity: delivered,
			Status:            status,
		}
	}

	t.Run("completing with empty delivered copies the planned activity", func(t *testing.T) {
		st := newCountingStore()
		task := newTask(domain.TaskStatusPending, "Implementar login", "")
		st.tasks = []domain.Task{task}
		svc, actor := setupActionService(t, st)

		toggled, err := svc.ToggleTaskCompletion(context.Background(), actor, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, toggled.Status)
		assert.Equal(t, "Implementar login", toggled.DeliveredActivity)
	})

	t.Run("completing never overwrites an existing delivered activity", func(t *testing.T) {
		st := newCountingStore()
		task := newTask(domain.TaskStatusInProgress, "Planejado", "Já entregue")
		st.tasks = []domain.Task{task}
		svc, actor := setupActionService(t, st)

		toggled, err := svc.ToggleTaskCompletion(context.Background(), actor, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, toggled.Status)
		assert.Equal(t, "Já entregue", toggled.DeliveredActivity)
	})

	t.Run("a completed task reverts to pending, delivered untouched", func(t *testing.T) {
		st := newCountingStore()
		task := newTask(domain.TaskStatusCompleted, "Planejado", "Entregue")
		st.tasks = []domain.Task{task}
		svc, actor := setupActionService(t, st)

		toggled, err := svc.ToggleTaskCompletion(context.Background(), actor, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusPending, toggled.Status)
		assert.Equal(t, "Entregue", toggled.DeliveredActivity, "reverting must not touch delivered")
	})

	t.Run("blocked tasks also toggle to completed", func(t *testing.T) {
		st := newCountingStore()
		task := newTask(domain.TaskStatusBlocked, "Planejado", "")
		st.tasks = []domain.Task{task}
		svc, actor := setupActionService(t, st)

		toggled, err := svc.ToggleTaskCompletion(context.Background(), actor, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, toggled.Status)
	})

	t.Run("unknown task returns not found", func(t *testing.T) {
		st := newCountingStore()
		svc, actor := setupActionService(t, st)

		_, err := svc.ToggleTaskCompletion(context.Background(), actor, uuid.New())
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})
}

func TestService_DeleteConflicts(t *testing.T) {
	t.Run("referential conflict passes through verbatim", func(t *testing.T) {
		st := newCountingStore()
		sector, _ := seedProjectWithSector(st)
		st.deleteErr = &domain.ReferentialConflictError{Entity: "setor", Dependent: "projetos"}
		svc, actor := setupActionService(t, st)

		err := svc.DeleteSector(context.Background(), actor, sector.ID)
		require.Error(t, err)

		var conflict *domain.ReferentialConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "não é possível excluir: existem projetos vinculados a este setor", err.Error())
		assert.Empty(t, st.logs, "blocked deletes must not be audited")
	})

	t.Run("other delete failures get the localized prefix", func(t *testing.T) {
		st := newCountingStore()
		task := domain.Task{BaseModel: domain.BaseModel{ID: uuid.New()}, PlannedActivity: "x"}
		st.tasks = []domain.Task{task}
		st.deleteErr = errors.New("deadlock detected")
		svc, actor := setupActionService(t, st)

		err := svc.DeleteTask(context.Background(), actor, task.ID)
		require.Error(t, err)

		var writeFailure *domain.WriteFailureError
		require.ErrorAs(t, err, &writeFailure)
		assert.Equal(t, "Erro ao excluir tarefa", writeFailure.Operation)
	})
}

func TestService_SectorAndProjectActions(t *testing.T) {
	t.Run("create sector then project under it", func(t *testing.T) {
		st := newCountingStore()
		svc, actor := setupActionService(t, st)

		sector, err := svc.CreateSector(context.Background(), actor, domain.CreateSectorRequest{Name: "TI"})
		require.NoError(t, err)
		require.Len(t, svc.Snapshot().Sectors, 1)

		project, err := svc.CreateProject(context.Background(), actor, domain.CreateProjectRequest{
			Name:     "Intranet",
			SectorID: sector.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, sector.ID, project.SectorID)
		require.Len(t, svc.Snapshot().Projects, 1)

		// a task created now resolves the sector through the new project
		task, err := svc.CreateTask(context.Background(), actor, domain.CreateTaskRequest{
			ProjectID:       project.ID,
			CollaboratorID:  uuid.New(),
			PlannedActivity: "Primeira tarefa",
		})
		require.NoError(t, err)
		assert.Equal(t, "TI", task.Sector)
	})

	t.Run("user creation defaults the role", func(t *testing.T) {
		st := newCountingStore()
		svc, actor := setupActionService(t, st)

		user, err := svc.CreateUser(context.Background(), actor, domain.CreateUserRequest{
			Name:  "Bruno",
			Email: "bruno@ititech.com.br",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
	})
}
