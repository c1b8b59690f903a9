package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"go.uber.org/zap"
)

// TaskHandler handles HTTP requests for tasks
type TaskHandler struct {
	cache  *cache.Service
	logger *zap.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(c *cache.Service, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{cache: c, logger: logger}
}

// ListTasks godoc
// @Summary List tasks
// @Description Get all tasks from the cache, most recently updated first
// @Tags Tasks
// @Produce json
// @Param collaboratorId query string false "Filter by collaborator ID"
// @Param status query string false "Filter by status" Enums(PENDING, IN_PROGRESS, COMPLETED, BLOCKED)
// @Success 200 {array} domain.Task
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.cache.Snapshot().Tasks

	var collaboratorID *uuid.UUID
	if raw := r.URL.Query().Get("collaboratorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid collaboratorId: must be a valid UUID")
			return
		}
		collaboratorID = &id
	}

	var status *domain.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.TaskStatus(raw)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of PENDING, IN_PROGRESS, COMPLETED, BLOCKED")
			return
		}
		status = &s
	}

	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if collaboratorID != nil && task.CollaboratorID != *collaboratorID {
			continue
		}
		if status != nil && task.Status != *status {
			continue
		}
		filtered = append(filtered, task)
	}

	respondJSON(w, http.StatusOK, filtered)
}

// CreateTask godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task body domain.CreateTaskRequest true "Task to create"
// @Success 201 {object} domain.Task
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := h.cache.CreateTask(r.Context(), actorFromRequest(r), req)
	if err != nil {
		h.logger.Error("failed to create task", zap.Error(err))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Update task
// @Description Partial update; a present field replaces the stored value, including the empty string
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body domain.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} domain.Task
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	var req domain.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := h.cache.UpdateTask(r.Context(), actorFromRequest(r), id, req)
	if err != nil {
		h.logger.Error("failed to update task", zap.Error(err), zap.String("task_id", id.String()))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete task
// @Tags Tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	if err := h.cache.DeleteTask(r.Context(), actorFromRequest(r), id); err != nil {
		h.logger.Error("failed to delete task", zap.Error(err), zap.String("task_id", id.String()))
		respondActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleTaskCompletion godoc
// @Summary Toggle task completion
// @Description Flips the task between COMPLETED and PENDING. Entering COMPLETED with an empty delivered activity copies the planned activity in.
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.Task
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTaskCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	task, err := h.cache.ToggleTaskCompletion(r.Context(), actorFromRequest(r), id)
	if err != nil {
		h.logger.Error("failed to toggle task", zap.Error(err), zap.String("task_id", id.String()))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// TotalHours godoc
// @Summary Total dedicated hours
// @Description Sum of HoursDedicated across all tasks, or one collaborator's tasks
// @Tags Tasks
// @Produce json
// @Param collaboratorId query string false "Collaborator ID"
// @Success 200 {object} domain.TotalHours
// @Security BearerAuth
// @Router /tasks/hours [get]
func (h *TaskHandler) TotalHours(w http.ResponseWriter, r *http.Request) {
	var collaboratorID *uuid.UUID
	if raw := r.URL.Query().Get("collaboratorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid collaboratorId: must be a valid UUID")
			return
		}
		collaboratorID = &id
	}
	respondJSON(w, http.StatusOK, h.cache.CalculateTotalHours(collaboratorID))
}
