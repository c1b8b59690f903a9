package cache

import (
	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
)

// CalculateTotalHours sums HoursDedicated across all cached tasks, or across
// one collaborator's tasks when collaboratorID is non-nil. Empty or
// malformed duration strings contribute zero and are skipped.
func (s *Service) CalculateTotalHours(collaboratorID *uuid.UUID) domain.TotalHours {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, task := range s.snapshot.Tasks {
		if collaboratorID != nil && task.CollaboratorID != *collaboratorID {
			continue
		}
		total += domain.DurationToMinutes(task.HoursDedicated)
	}
	return domain.TotalHours{
		TotalMinutes: total,
		Formatted:    domain.MinutesToDuration(total),
	}
}

// StatusCounts groups the cached tasks by status for the dashboard summary
func (s *Service) StatusCounts() domain.TaskStatusCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts domain.TaskStatusCounts
	for _, task := range s.snapshot.Tasks {
		switch task.Status {
		case domain.TaskStatusPending:
			counts.Pending++
		case domain.TaskStatusInProgress:
			counts.InProgress++
		case domain.TaskStatusCompleted:
			counts.Completed++
		case domain.TaskStatusBlocked:
			counts.Blocked++
		}
	}
	return counts
}
