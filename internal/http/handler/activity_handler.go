package handler

import (
	"net/http"

	"github.com/iti-tech/taskboard-api/internal/cache"
	"go.uber.org/zap"
)

// ActivityHandler exposes the audit trail
type ActivityHandler struct {
	cache  *cache.Service
	logger *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(c *cache.Service, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{cache: c, logger: logger}
}

// ListActivityLogs godoc
// @Summary Recent activity log
// @Description The most recent audit entries, newest first; retention trims older rows
// @Tags Activity
// @Produce json
// @Success 200 {array} domain.ActivityLog
// @Security BearerAuth
// @Router /activity [get]
func (h *ActivityHandler) ListActivityLogs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot().ActivityLogs)
}
