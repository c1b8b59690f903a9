package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// UserRole represents the access level of a user
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a collaborator. Identity is owned by the external identity
// provider; the profile fields here are a mirror kept for display purposes.
type User struct {
	BaseModel
	Name      string   `gorm:"type:varchar(200);not null" json:"name"`
	Email     string   `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	AvatarURL string   `gorm:"type:varchar(500);column:avatar_url" json:"avatarUrl,omitempty"`
	Role      UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Sector    string   `gorm:"type:varchar(200)" json:"sector,omitempty"`
}

// Sector represents an organizational sector that groups projects
type Sector struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"`
}

// Project belongs to exactly one sector
type Project struct {
	BaseModel
	Name     string    `gorm:"type:varchar(200);not null;index" json:"name"`
	SectorID uuid.UUID `gorm:"type:uuid;not null;index;column:sector_id" json:"sectorId"`
	Sector   *Sector   `gorm:"foreignKey:SectorID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// IsValid checks if the TaskStatus is a valid enum value
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

// IsValid checks if the TaskPriority is a valid enum value
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task is a planned/delivered activity logged against a project.
// Sector carries a denormalized display copy of the project's sector name,
// and HoursDedicated is an "HH:MM" duration string (hours unbounded,
// minutes 0-59).
type Task struct {
	BaseModel
	ProjectID         uuid.UUID    `gorm:"type:uuid;not null;index;column:project_id" json:"projectId"`
	Project           *Project     `gorm:"foreignKey:ProjectID" json:"-"`
	CollaboratorID    uuid.UUID    `gorm:"type:uuid;not null;index;column:collaborator_id" json:"collaboratorId"`
	Sector            string       `gorm:"type:varchar(200)" json:"sector"`
	PlannedActivity   string       `gorm:"type:text;column:planned_activity" json:"plannedActivity"`
	DeliveredActivity string       `gorm:"type:text;column:delivered_activity" json:"deliveredActivity"`
	Priority          TaskPriority `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status            TaskStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	DueDate           *time.Time   `gorm:"type:date;column:due_date" json:"dueDate,omitempty"`
	HoursDedicated    string       `gorm:"type:varchar(20);column:hours_dedicated" json:"hoursDedicated"`
	Notes             string       `gorm:"type:text" json:"notes,omitempty"`
}

// BoardStatus represents the column of a kanban board task
type BoardStatus string

const (
	BoardStatusTodo  BoardStatus = "TODO"
	BoardStatusDoing BoardStatus = "DOING"
	BoardStatusDone  BoardStatus = "DONE"
)

// IsValid checks if the BoardStatus is a valid enum value
func (s BoardStatus) IsValid() bool {
	return s == BoardStatusTodo || s == BoardStatusDoing || s == BoardStatusDone
}

// Subtask is one checklist entry of a board task; order is preserved
type Subtask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// BoardTask is an independent kanban item, not tied to Project or Sector
type BoardTask struct {
	BaseModel
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	StartDate   *time.Time     `gorm:"type:date;column:start_date" json:"startDate,omitempty"`
	EndDate     *time.Time     `gorm:"type:date;column:end_date" json:"endDate,omitempty"`
	MemberIDs   pq.StringArray `gorm:"type:text[];column:member_ids" json:"memberIds"`
	Subtasks    []Subtask      `gorm:"serializer:json" json:"subtasks"`
	Status      BoardStatus    `gorm:"type:varchar(20);not null;default:'TODO';index" json:"status"`
}

// LogAction classifies an audit trail entry
type LogAction string

const (
	LogActionCreate LogAction = "CREATE"
	LogActionUpdate LogAction = "UPDATE"
	LogActionDelete LogAction = "DELETE"
)

// ActivityLog is one append-only audit trail entry. Retrieval is capped to
// the most recent N entries; a retention job prunes the rest.
type ActivityLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Action      LogAction `gorm:"type:varchar(20);not null" json:"action"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"timestamp"`
}

// ChatRole identifies the author side of a chat message
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one append-only conversation entry, ordered by creation
// time. UserID is nil for model-authored messages.
type ChatMessage struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"userId,omitempty"`
	Role      ChatRole   `gorm:"type:varchar(20);not null" json:"role"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
}

// ChatTurnLockID is the primary key of the single chat turn lock row
const ChatTurnLockID = 1

// ChatTurnLock is the singleton coordination row for AI conversation turns.
// IsLocked=true implies LockedByUserID is non-nil.
type ChatTurnLock struct {
	ID             int        `gorm:"primaryKey" json:"id"`
	IsLocked       bool       `gorm:"not null;default:false;column:is_locked" json:"isLocked"`
	LockedByUserID *uuid.UUID `gorm:"type:uuid;column:locked_by_user_id" json:"lockedByUserId,omitempty"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// SystemSettingsID is the primary key of the single settings row
const SystemSettingsID = 1

// SystemSettings holds process-wide cosmetic configuration, loaded once per
// session and mutated by admin uploads.
type SystemSettings struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	LogoURL    string    `gorm:"type:varchar(500);column:logo_url" json:"logoUrl"`
	FaviconURL string    `gorm:"type:varchar(500);column:favicon_url" json:"faviconUrl"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}
