package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/auth"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for collaborator profiles
type UserHandler struct {
	cache  *cache.Service
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(c *cache.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{cache: c, logger: logger}
}

// Me godoc
// @Summary Current user profile
// @Tags Users
// @Produce json
// @Success 200 {object} domain.User
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())
	for _, u := range h.cache.Snapshot().Users {
		if u.ID == userCtx.UserID {
			respondJSON(w, http.StatusOK, u)
			return
		}
	}
	respondWithError(w, http.StatusNotFound, "Perfil de colaborador não encontrado")
}

// ListUsers godoc
// @Summary List collaborators
// @Tags Users
// @Produce json
// @Success 200 {array} domain.User
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot().Users)
}

// CreateUser godoc
// @Summary Create collaborator profile
// @Tags Users
// @Accept json
// @Produce json
// @Param user body domain.CreateUserRequest true "Profile to create"
// @Success 201 {object} domain.User
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.cache.CreateUser(r.Context(), actorFromRequest(r), req)
	if err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update collaborator profile
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body domain.UpdateUserRequest true "Fields to update"
// @Success 200 {object} domain.User
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID: must be a valid UUID")
		return
	}

	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.cache.UpdateUser(r.Context(), actorFromRequest(r), id, req)
	if err != nil {
		h.logger.Error("failed to update user", zap.Error(err), zap.String("user_id", id.String()))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete collaborator profile
// @Description Fails with 409 when tasks still reference the collaborator
// @Tags Users
// @Param id path string true "User ID"
// @Success 204
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID: must be a valid UUID")
		return
	}

	if err := h.cache.DeleteUser(r.Context(), actorFromRequest(r), id); err != nil {
		h.logger.Warn("failed to delete user", zap.Error(err), zap.String("user_id", id.String()))
		respondActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
