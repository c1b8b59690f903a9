package domain

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	ProjectID       uuid.UUID    `json:"projectId" validate:"required"`
	CollaboratorID  uuid.UUID    `json:"collaboratorId" validate:"required"`
	PlannedActivity string       `json:"plannedActivity" validate:"required,max=5000"`
	Priority        TaskPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Status          TaskStatus   `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED BLOCKED"`
	DueDate         *time.Time   `json:"dueDate"`
	HoursDedicated  string       `json:"hoursDedicated" validate:"omitempty,max=20"`
	Notes           string       `json:"notes" validate:"max=5000"`
}

// UpdateTaskRequest carries partial task updates. A present (non-nil) field
// always replaces the stored value, including the empty string; absent
// fields are preserved.
type UpdateTaskRequest struct {
	ProjectID         *uuid.UUID    `json:"projectId"`
	CollaboratorID    *uuid.UUID    `json:"collaboratorId"`
	PlannedActivity   *string       `json:"plannedActivity"`
	DeliveredActivity *string       `json:"deliveredActivity"`
	Priority          *TaskPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Status            *TaskStatus   `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED BLOCKED"`
	DueDate           *time.Time    `json:"dueDate"`
	HoursDedicated    *string       `json:"hoursDedicated"`
	Notes             *string       `json:"notes"`
}

// CreateBoardTaskRequest is the payload for creating a kanban board task
type CreateBoardTaskRequest struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=5000"`
	StartDate   *time.Time  `json:"startDate"`
	EndDate     *time.Time  `json:"endDate"`
	MemberIDs   []string    `json:"memberIds"`
	Subtasks    []Subtask   `json:"subtasks"`
	Status      BoardStatus `json:"status" validate:"omitempty,oneof=TODO DOING DONE"`
}

// UpdateBoardTaskRequest carries partial board task updates with the same
// present-replaces / absent-preserves semantics as UpdateTaskRequest
type UpdateBoardTaskRequest struct {
	Title       *string      `json:"title" validate:"omitempty,max=200"`
	Description *string      `json:"description"`
	StartDate   *time.Time   `json:"startDate"`
	EndDate     *time.Time   `json:"endDate"`
	MemberIDs   *[]string    `json:"memberIds"`
	Subtasks    *[]Subtask   `json:"subtasks"`
	Status      *BoardStatus `json:"status" validate:"omitempty,oneof=TODO DOING DONE"`
}

// CreateSectorRequest is the payload for creating a sector
type CreateSectorRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// UpdateSectorRequest carries partial sector updates
type UpdateSectorRequest struct {
	Name *string `json:"name" validate:"omitempty,max=200"`
}

// CreateProjectRequest is the payload for creating a project
type CreateProjectRequest struct {
	Name     string    `json:"name" validate:"required,max=200"`
	SectorID uuid.UUID `json:"sectorId" validate:"required"`
}

// UpdateProjectRequest carries partial project updates
type UpdateProjectRequest struct {
	Name     *string    `json:"name" validate:"omitempty,max=200"`
	SectorID *uuid.UUID `json:"sectorId"`
}

// CreateUserRequest is the payload for mirroring a collaborator profile
type CreateUserRequest struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Email     string   `json:"email" validate:"required,email"`
	AvatarURL string   `json:"avatarUrl" validate:"omitempty,url"`
	Role      UserRole `json:"role" validate:"omitempty,oneof=admin user"`
	Sector    string   `json:"sector" validate:"max=200"`
}

// UpdateUserRequest carries partial user profile updates
type UpdateUserRequest struct {
	Name      *string   `json:"name" validate:"omitempty,max=200"`
	AvatarURL *string   `json:"avatarUrl"`
	Role      *UserRole `json:"role" validate:"omitempty,oneof=admin user"`
	Sector    *string   `json:"sector"`
}

// SendChatMessageRequest is the payload for starting a chat turn
type SendChatMessageRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// TotalHours is the aggregate of HoursDedicated across a task scope
type TotalHours struct {
	TotalMinutes int    `json:"totalMinutes"`
	Formatted    string `json:"formatted"`
}

// TaskStatusCounts groups task totals by status for the dashboard
type TaskStatusCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Blocked    int64 `json:"blocked"`
}

// ErrorResponse is the legacy flat error payload kept for simple failures
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
