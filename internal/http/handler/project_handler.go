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

// ProjectHandler handles HTTP requests for projects
type ProjectHandler struct {
	cache  *cache.Service
	logger *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(c *cache.Service, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{cache: c, logger: logger}
}

// ListProjects godoc
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param sectorId query string false "Filter by sector ID"
// @Success 200 {array} domain.Project
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.cache.Snapshot().Projects

	if raw := r.URL.Query().Get("sectorId"); raw != "" {
		sectorID, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid sectorId: must be a valid UUID")
			return
		}
		filtered := make([]domain.Project, 0, len(projects))
		for _, p := range projects {
			if p.SectorID == sectorID {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}

	respondJSON(w, http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body domain.CreateProjectRequest true "Project to create"
// @Success 201 {object} domain.Project
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := h.cache.CreateProject(r.Context(), actorFromRequest(r), req)
	if err != nil {
		h.logger.Error("failed to create project", zap.Error(err))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

// UpdateProject godoc
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param project body domain.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} domain.Project
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID: must be a valid UUID")
		return
	}

	var req domain.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := h.cache.UpdateProject(r.Context(), actorFromRequest(r), id, req)
	if err != nil {
		h.logger.Error("failed to update project", zap.Error(err), zap.String("project_id", id.String()))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete project
// @Description Fails with 409 when tasks still reference the project
// @Tags Projects
// @Param id path string true "Project ID"
// @Success 204
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID: must be a valid UUID")
		return
	}

	if err := h.cache.DeleteProject(r.Context(), actorFromRequest(r), id); err != nil {
		h.logger.Warn("failed to delete project", zap.Error(err), zap.String("project_id", id.String()))
		respondActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
