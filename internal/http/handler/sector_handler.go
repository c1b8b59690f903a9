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

// SectorHandler handles HTTP requests for sectors
type SectorHandler struct {
	cache  *cache.Service
	logger *zap.Logger
}

// NewSectorHandler creates a new SectorHandler
func NewSectorHandler(c *cache.Service, logger *zap.Logger) *SectorHandler {
	return &SectorHandler{cache: c, logger: logger}
}

// ListSectors godoc
// @Summary List sectors
// @Tags Sectors
// @Produce json
// @Success 200 {array} domain.Sector
// @Security BearerAuth
// @Router /sectors [get]
func (h *SectorHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot().Sectors)
}

// CreateSector godoc
// @Summary Create sector
// @Tags Sectors
// @Accept json
// @Produce json
// @Param sector body domain.CreateSectorRequest true "Sector to create"
// @Success 201 {object} domain.Sector
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /sectors [post]
func (h *SectorHandler) CreateSector(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	sector, err := h.cache.CreateSector(r.Context(), actorFromRequest(r), req)
	if err != nil {
		h.logger.Error("failed to create sector", zap.Error(err))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sector)
}

// UpdateSector godoc
// @Summary Update sector
// @Tags Sectors
// @Accept json
// @Produce json
// @Param id path string true "Sector ID"
// @Param sector body domain.UpdateSectorRequest true "Fields to update"
// @Success 200 {object} domain.Sector
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /sectors/{id} [put]
func (h *SectorHandler) UpdateSector(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid sector ID: must be a valid UUID")
		return
	}

	var req domain.UpdateSectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	sector, err := h.cache.UpdateSector(r.Context(), actorFromRequest(r), id, req)
	if err != nil {
		h.logger.Error("failed to update sector", zap.Error(err), zap.String("sector_id", id.String()))
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sector)
}

// DeleteSector godoc
// @Summary Delete sector
// @Description Fails with 409 when projects still reference the sector
// @Tags Sectors
// @Param id path string true "Sector ID"
// @Success 204
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /sectors/{id} [delete]
func (h *SectorHandler) DeleteSector(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid sector ID: must be a valid UUID")
		return
	}

	if err := h.cache.DeleteSector(r.Context(), actorFromRequest(r), id); err != nil {
		h.logger.Warn("failed to delete sector", zap.Error(err), zap.String("sector_id", id.String()))
		respondActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
