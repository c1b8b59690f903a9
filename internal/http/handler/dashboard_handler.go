package handler

import (
	"net/http"

	"github.com/iti-tech/taskboard-api/internal/cache"
	"go.uber.org/zap"
)

// DashboardHandler serves the aggregated dashboard view
type DashboardHandler struct {
	cache  *cache.Service
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(c *cache.Service, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{cache: c, logger: logger}
}

// GetSnapshot godoc
// @Summary Full cache snapshot
// @Description One consistent view of every collection, plus the degraded flag when any collection failed its last refresh
// @Tags Dashboard
// @Produce json
// @Success 200 {object} cache.Snapshot
// @Security BearerAuth
// @Router /dashboard/snapshot [get]
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot())
}

// GetStats godoc
// @Summary Task status counts
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.TaskStatusCounts
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.StatusCounts())
}
