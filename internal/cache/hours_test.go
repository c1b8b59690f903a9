package cache_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CalculateTotalHours(t *testing.T) {
	ana := uuid.New()
	bruno := uuid.New()

	st := newCountingStore()
	st.tasks = []domain.Task{
		{BaseModel: domain.BaseModel{ID: uuid.New()}, CollaboratorID: ana, HoursDedicated: "01:30"},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, CollaboratorID: ana, HoursDedicated: "00:45"},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, CollaboratorID: bruno, HoursDedicated: "02:00"},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, CollaboratorID: bruno, HoursDedicated: ""},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, CollaboratorID: bruno, HoursDedicated: "bad:data"},
	}
	svc := newTestService(st)
	require.NoError(t, svc.Initialize(context.Background()))

	t.Run("sums across all collaborators", func(t *testing.T) {
		total := svc.CalculateTotalHours(nil)
		assert.Equal(t, 255, total.TotalMinutes)
		assert.Equal(t, "04:15", total.Formatted)
	})

	t.Run("filters by collaborator", func(t *testing.T) {
		total := svc.CalculateTotalHours(&ana)
		assert.Equal(t, 135, total.TotalMinutes)
		assert.Equal(t, "02:15", total.Formatted)
	})

	t.Run("empty and malformed entries contribute zero", func(t *testing.T) {
		total := svc.CalculateTotalHours(&bruno)
		assert.Equal(t, 120, total.TotalMinutes)
		assert.Equal(t, "02:00", total.Formatted)
	})

	t.Run("unknown collaborator sums to zero", func(t *testing.T) {
		ghost := uuid.New()
		total := svc.CalculateTotalHours(&ghost)
		assert.Zero(t, total.TotalMinutes)
		assert.Equal(t, "00:00", total.Formatted)
	})
}

func TestService_StatusCounts(t *testing.T) {
	st := newCountingStore()
	st.tasks = []domain.Task{
		{BaseModel: domain.BaseModel{ID: uuid.New()}, Status: domain.TaskStatusPending},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, Status: domain.TaskStatusPending},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, Status: domain.TaskStatusInProgress},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, Status: domain.TaskStatusCompleted},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, Status: domain.TaskStatusBlocked},
	}
	svc := newTestService(st)
	require.NoError(t, svc.Initialize(context.Background()))

	counts := svc.StatusCounts()
	assert.Equal(t, int64(2), counts.Pending)
	assert.Equal(t, int64(1), counts.InProgress)
	assert.Equal(t, int64(1), counts.Completed)
	assert.Equal(t, int64(1), counts.Blocked)
}
