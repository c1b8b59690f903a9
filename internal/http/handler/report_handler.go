package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/iti-tech/taskboard-api/internal/export"
	"go.uber.org/zap"
)

// ReportHandler produces the CSV task report
type ReportHandler struct {
	cache  *cache.Service
	logger *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(c *cache.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{cache: c, logger: logger}
}

// ExportTasks godoc
// @Summary Export tasks as CSV
// @Description Streams the task report with the current filters applied, in the cached ordering (most recently updated first)
// @Tags Reports
// @Produce text/csv
// @Param search query string false "Free-text filter on planned/delivered activity and notes"
// @Param status query string false "Filter by status" Enums(PENDING, IN_PROGRESS, COMPLETED, BLOCKED)
// @Param collaboratorId query string false "Filter by collaborator ID"
// @Success 200 {string} string "CSV content"
// @Security BearerAuth
// @Router /reports/tasks [get]
func (h *ReportHandler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	snap := h.cache.Snapshot()
	tasks := snap.Tasks

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of PENDING, IN_PROGRESS, COMPLETED, BLOCKED")
			return
		}
		tasks = filterTasks(tasks, func(t domain.Task) bool { return t.Status == status })
	}

	if raw := r.URL.Query().Get("collaboratorId"); raw != "" {
		collaboratorID, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid collaboratorId: must be a valid UUID")
			return
		}
		tasks = filterTasks(tasks, func(t domain.Task) bool { return t.CollaboratorID == collaboratorID })
	}

	if search := strings.ToLower(r.URL.Query().Get("search")); search != "" {
		tasks = filterTasks(tasks, func(t domain.Task) bool {
			return strings.Contains(strings.ToLower(t.PlannedActivity), search) ||
				strings.Contains(strings.ToLower(t.DeliveredActivity), search) ||
				strings.Contains(strings.ToLower(t.Notes), search)
		})
	}

	filename := export.Filename(time.Now())
	data := export.TaskReport(tasks, snap.Projects, snap.Users)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)

	h.logger.Info("task report exported",
		zap.String("filename", filename),
		zap.Int("rows", len(tasks)))
}

func filterTasks(tasks []domain.Task, keep func(domain.Task) bool) []domain.Task {
	filtered := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
