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

// BoardHandler handles HTTP requests for kanban board tasks
type BoardHandler struct {
	cache  *cache.Service
	logger *zap.Logger
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(c *cache.Service, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{cache: c, logger: logger}
}

// ListBoardTasks godoc
// @Summary List board tasks
// @Tags Board
// @Produce json
// @Success 200 {array} domain.BoardTask
// @Security BearerAuth
// @Router /board-tasks [get]
func (h *BoardHandler) ListBoardTasks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot().BoardTasks)
}

// CreateBoardTask godoc
// @Summary Create board task
// @Tags Board
// @Accept json
// @Produce json
// @Param task body domain.CreateBoardTaskRequest true "Board task to create"
// @Success 201 {object} domain.BoardTask
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /board-tasks [post]
func (h *BoardHandler) CreateBoardTask(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBoardTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := h.cache.CreateBoardTask(r.Context(), actorFromRequest(r), req)
	if err != nil {
		h.logger.Error("failed to create board task", zap.Error(err))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// UpdateBoardTask godoc
// @Summary Update board task
// @Tags Board
// @Accept json
// @Produce json
// @Param id path string true "Board task ID"
// @Param task body domain.UpdateBoardTaskRequest true "Fields to update"
// @Success 200 {object} domain.BoardTask
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /board-tasks/{id} [put]
func (h *BoardHandler) UpdateBoardTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid board task ID: must be a valid UUID")
		return
	}

	var req domain.UpdateBoardTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := h.cache.UpdateBoardTask(r.Context(), actorFromRequest(r), id, req)
	if err != nil {
		h.logger.Error("failed to update board task", zap.Error(err), zap.String("board_task_id", id.String()))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// DeleteBoardTask godoc
// @Summary Delete board task
// @Tags Board
// @Param id path string true "Board task ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /board-tasks/{id} [delete]
func (h *BoardHandler) DeleteBoardTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid board task ID: must be a valid UUID")
		return
	}

	if err := h.cache.DeleteBoardTask(r.Context(), actorFromRequest(r), id); err != nil {
		h.logger.Error("failed to delete board task", zap.Error(err), zap.String("board_task_id", id.String()))
		respondActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
