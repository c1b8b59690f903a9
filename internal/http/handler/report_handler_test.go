package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/iti-tech/taskboard-api/internal/export"
	"github.com/iti-tech/taskboard-api/internal/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func reportRouter(t *testing.T, st *memStore) *chi.Mux {
	h := handler.NewReportHandler(newTestCache(t, st), zap.NewNop())

	r := chi.NewRouter()
	r.Use(withTestUser(testUser))
	r.Get("/reports/tasks", h.ExportTasks)
	return r
}

func TestReportHandler_ExportTasks(t *testing.T) {
	ana := uuid.New()
	project := domain.Project{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Portal"}
	st := newMemStore()
	st.projects = []domain.Project{project}
	st.users = []domain.User{{BaseModel: domain.BaseModel{ID: ana}, Name: "Ana Silva", Email: "ana@ititech.com.br"}}
	st.tasks = []domain.Task{
		{
			BaseModel:       domain.BaseModel{ID: uuid.New()},
			ProjectID:       project.ID,
			CollaboratorID:  ana,
			PlannedActivity: "Implementar login",
			Status:          domain.TaskStatusPending,
		},
		{
			BaseModel:       domain.BaseModel{ID: uuid.New()},
			ProjectID:       project.ID,
			CollaboratorID:  uuid.New(),
			PlannedActivity: "Ajustar layout",
			Status:          domain.TaskStatusCompleted,
		},
	}
	router := reportRouter(t, st)

	t.Run("exports csv with download headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/tasks", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		disposition := rec.Header().Get("Content-Disposition")
		assert.Contains(t, disposition, "attachment")
		assert.Contains(t, disposition, export.Filename(time.Now()))

		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "\uFEFF"), "body starts with the UTF-8 BOM")
		assert.Contains(t, body, `"Implementar login"`)
		assert.Contains(t, body, `"Ana Silva"`)
		assert.Contains(t, body, `"Portal"`)
	})

	t.Run("status filter narrows the rows", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/tasks?status=COMPLETED", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"Ajustar layout"`)
		assert.NotContains(t, body, `"Implementar login"`)
	})

	t.Run("search matches planned activity case-insensitively", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/tasks?search=LOGIN", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"Implementar login"`)
		assert.NotContains(t, body, `"Ajustar layout"`)
	})

	t.Run("invalid status is a bad request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/tasks?status=FINISHED", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
