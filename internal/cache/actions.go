package cache

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor identifies who performed a mutation, for the audit trail
type Actor struct {
	ID   uuid.UUID
	Name string
}

// ErrNotFound is returned when a mutation targets an entity that no longer
// exists in the store.
var ErrNotFound = errors.New("record not found")

// writeErr wraps a store write failure with a localized prefix describing
// the attempted operation. Referential conflicts pass through verbatim.
func writeErr(operation string, err error) error {
	var conflict *domain.ReferentialConflictError
	if errors.As(err, &conflict) {
		return conflict
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &domain.WriteFailureError{Operation: operation, Err: err}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}

// recordActivity appends one audit trail entry. Failures are logged and
// swallowed: the audit trail never blocks the mutation that triggered it.
func (s *Service) recordActivity(ctx context.Context, actor Actor, action domain.LogAction, description string) {
	entry := &domain.ActivityLog{
		UserID:      actor.ID,
		Action:      action,
		Description: description,
	}
	if err := s.store.AppendActivityLog(ctx, entry); err != nil {
		s.logger.Warn("failed to append activity log",
			zap.String("description", description),
			zap.Error(err))
	}
}

// CreateTask writes a new task, stamping the denormalized sector name from
// the owning project.
func (s *Service) CreateTask(ctx context.Context, actor Actor, req domain.CreateTaskRequest) (*domain.Task, error) {
	task := &domain.Task{
		ProjectID:       req.ProjectID,
		CollaboratorID:  req.CollaboratorID,
		Sector:          s.sectorNameForProject(req.ProjectID),
		PlannedActivity: req.PlannedActivity,
		Priority:        req.Priority,
		Status:          req.Status,
		DueDate:         req.DueDate,
		HoursDedicated:  req.HoursDedicated,
		Notes:           req.Notes,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, writeErr("Erro ao criar tarefa", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionCreate,
		fmt.Sprintf("%s criou a tarefa %q", actor.Name, truncate(task.PlannedActivity, 80)))
	s.Refresh(ctx, TableTasks, TableActivityLogs)
	return task, nil
}

// UpdateTask applies a partial update: a present field replaces the stored
// value, including the empty string; absent fields are preserved.
func (s *Service) UpdateTask(ctx context.Context, actor Actor, id uuid.UUID, req domain.UpdateTaskRequest) (*domain.Task, error) {
	task, ok := s.taskByID(id)
	if !ok {
		return nil, ErrNotFound
	}

	if req.ProjectID != nil {
		task.ProjectID = *req.ProjectID
		task.Sector = s.sectorNameForProject(*req.ProjectID)
	}
	if req.CollaboratorID != nil {
		task.CollaboratorID = *req.CollaboratorID
	}
	if req.PlannedActivity != nil {
		task.PlannedActivity = *req.PlannedActivity
	}
	if req.DeliveredActivity != nil {
		task.DeliveredActivity = *req.DeliveredActivity
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.HoursDedicated != nil {
		task.HoursDedicated = *req.HoursDedicated
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}

	if err := s.store.UpdateTask(ctx, &task); err != nil {
		return nil, writeErr("Erro ao atualizar tarefa", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionUpdate,
		fmt.Sprintf("%s atualizou a tarefa %q", actor.Name, truncate(task.PlannedActivity, 80)))
	s.Refresh(ctx, TableTasks, TableActivityLogs)
	return &task, nil
}

func (s *Service) DeleteTask(ctx context.Context, actor Actor, id uuid.UUID) error {
	task, ok := s.taskByID(id)
	if !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return writeErr("Erro ao excluir tarefa", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionDelete,
		fmt.Sprintf("%s excluiu a tarefa %q", actor.Name, truncate(task.PlannedActivity, 80)))
	s.Refresh(ctx, TableTasks, TableActivityLogs)
	return nil
}

// ToggleTaskCompletion flips a task between COMPLETED and PENDING. When the
// task enters COMPLETED with an empty delivered activity, the planned
// activity is copied in; an existing delivered activity is never overwritten.
func (s *Service) ToggleTaskCompletion(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Task, error) {
	task, ok := s.taskByID(id)
	if !ok {
		return nil, ErrNotFound
	}

	if task.Status == domain.TaskStatusCompleted {
		task.Status = domain.TaskStatusPending
	} else {
		task.Status = domain.TaskStatusCompleted
		if task.DeliveredActivity == "" {
			task.DeliveredActivity = task.PlannedActivity
		}
	}

	if err := s.store.UpdateTask(ctx, &task); err != nil {
		return nil, writeErr("Erro ao atualizar tarefa", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionUpdate,
		fmt.Sprintf("%s atualizou a tarefa %q", actor.Name, truncate(task.PlannedActivity, 80)))
	s.Refresh(ctx, TableTasks, TableActivityLogs)
	return &task, nil
}

func (s *Service) CreateBoardTask(ctx context.Context, actor Actor, req domain.CreateBoardTaskRequest) (*domain.BoardTask, error) {
	task := &domain.BoardTask{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MemberIDs:   req.MemberIDs,
		Subtasks:    req.Subtasks,
		Status:      req.Status,
	}
	if task.Status == "" {
		task.Status = domain.BoardStatusTodo
	}

	if err := s.store.CreateBoardTask(ctx, task); err != nil {
		return nil, writeErr("Erro ao criar tarefa do quadro", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionCreate,
		fmt.Sprintf("%s criou a tarefa do quadro %q", actor.Name, truncate(task.Title, 80)))
	s.Refresh(ctx, TableBoardTasks, TableActivityLogs)
	return task, nil
}

func (s *Service) UpdateBoardTask(ctx context.Context, actor Actor, id uuid.UUID, req domain.UpdateBoardTaskRequest) (*domain.BoardTask, error) {
	task, ok := s.boardTaskByID(id)
	if !ok {
		return nil, ErrNotFound
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		task.EndDate = req.EndDate
	}
	if req.MemberIDs != nil {
		task.MemberIDs = *req.MemberIDs
	}
	if req.Subtasks != nil {
		task.Subtasks = *req.Subtasks
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	if err := s.store.UpdateBoardTask(ctx, &task); err != nil {
		return nil, writeErr("Erro ao atualizar tarefa do quadro", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionUpdate,
		fmt.Sprintf("%s atualizou a tarefa do quadro %q", actor.Name, truncate(task.Title, 80)))
	s.Refresh(ctx, TableBoardTasks, TableActivityLogs)
	return &task, nil
}

func (s *Service) DeleteBoardTask(ctx context.Context, actor Actor, id uuid.UUID) error {
	task, ok := s.boardTaskByID(id)
	if !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteBoardTask(ctx, id); err != nil {
		return writeErr("Erro ao excluir tarefa do quadro", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionDelete,
		fmt.Sprintf("%s excluiu a tarefa do quadro %q", actor.Name, truncate(task.Title, 80)))
	s.Refresh(ctx, TableBoardTasks, TableActivityLogs)
	return nil
}

func (s *Service) CreateSector(ctx context.Context, actor Actor, req domain.CreateSectorRequest) (*domain.Sector, error) {
	sector := &domain.Sector{Name: req.Name}
	if err := s.store.CreateSector(ctx, sector); err != nil {
		return nil, writeErr("Erro ao criar setor", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionCreate,
		fmt.Sprintf("%s criou o setor %q", actor.Name, sector.Name))
	s.Refresh(ctx, TableSectors, TableActivityLogs)
	return sector, nil
}

func (s *Service) UpdateSector(ctx context.Context, actor Actor, id uuid.UUID, req domain.UpdateSectorRequest) (*domain.Sector, error) {
	sector, ok := s.sectorByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		sector.Name = *req.Name
	}
	if err := s.store.UpdateSector(ctx, &sector); err != nil {
		return nil, writeErr("Erro ao atualizar setor", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionUpdate,
		fmt.Sprintf("%s atualizou o setor %q", actor.Name, sector.Name))
	s.Refresh(ctx, TableSectors, TableActivityLogs)
	return &sector, nil
}

func (s *Service) DeleteSector(ctx context.Context, actor Actor, id uuid.UUID) error {
	sector, ok := s.sectorByID(id)
	if !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteSector(ctx, id); err != nil {
		return writeErr("Erro ao excluir setor", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionDelete,
		fmt.Sprintf("%s excluiu o setor %q", actor.Name, sector.Name))
	s.Refresh(ctx, TableSectors, TableActivityLogs)
	return nil
}

func (s *Service) CreateProject(ctx context.Context, actor Actor, req domain.CreateProjectRequest) (*domain.Project, error) {
	project := &domain.Project{Name: req.Name, SectorID: req.SectorID}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, writeErr("Erro ao criar projeto", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionCreate,
		fmt.Sprintf("%s criou o projeto %q", actor.Name, project.Name))
	s.Refresh(ctx, TableProjects, TableActivityLogs)
	return project, nil
}

func (s *Service) UpdateProject(ctx context.Context, actor Actor, id uuid.UUID, req domain.UpdateProjectRequest) (*domain.Project, error) {
	project, ok := s.projectByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.SectorID != nil {
		project.SectorID = *req.SectorID
	}
	project.Sector = nil
	if err := s.store.UpdateProject(ctx, &project); err != nil {
		return nil, writeErr("Erro ao atualizar projeto", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionUpdate,
		fmt.Sprintf("%s atualizou o projeto %q", actor.Name, project.Name))
	s.Refresh(ctx, TableProjects, TableActivityLogs)
	return &project, nil
}

func (s *Service) DeleteProject(ctx context.Context, actor Actor, id uuid.UUID) error {
	project, ok := s.projectByID(id)
	if !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return writeErr("Erro ao excluir projeto", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionDelete,
		fmt.Sprintf("%s excluiu o projeto %q", actor.Name, project.Name))
	s.Refresh(ctx, TableProjects, TableActivityLogs)
	return nil
}

func (s *Service) CreateUser(ctx context.Context, actor Actor, req domain.CreateUserRequest) (*domain.User, error) {
	user := &domain.User{
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
		Sector:    req.Sector,
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, writeErr("Erro ao criar colaborador", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionCreate,
		fmt.Sprintf("%s criou o colaborador %q", actor.Name, user.Name))
	s.Refresh(ctx, TableUsers, TableActivityLogs)
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req domain.UpdateUserRequest) (*domain.User, error) {
	user, ok := s.userByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Sector != nil {
		user.Sector = *req.Sector
	}
	if err := s.store.UpdateUser(ctx, &user); err != nil {
		return nil, writeErr("Erro ao atualizar colaborador", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionUpdate,
		fmt.Sprintf("%s atualizou o colaborador %q", actor.Name, user.Name))
	s.Refresh(ctx, TableUsers, TableActivityLogs)
	return &user, nil
}

func (s *Service) DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	user, ok := s.userByID(id)
	if !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return writeErr("Erro ao excluir colaborador", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionDelete,
		fmt.Sprintf("%s excluiu o colaborador %q", actor.Name, user.Name))
	s.Refresh(ctx, TableUsers, TableActivityLogs)
	return nil
}

// UpdateSettings persists the singleton settings row
func (s *Service) UpdateSettings(ctx context.Context, actor Actor, settings domain.SystemSettings) (*domain.SystemSettings, error) {
	if err := s.store.UpdateSettings(ctx, &settings); err != nil {
		return nil, writeErr("Erro ao atualizar configurações", err)
	}
	s.recordActivity(ctx, actor, domain.LogActionUpdate,
		fmt.Sprintf("%s atualizou as configurações do sistema", actor.Name))
	s.Refresh(ctx, TableSettings, TableActivityLogs)
	return &settings, nil
}

// snapshot lookups; each returns a copy so callers can mutate freely

func (s *Service) taskByID(id uuid.UUID) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.snapshot.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func (s *Service) boardTaskByID(id uuid.UUID) (domain.BoardTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.snapshot.BoardTasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.BoardTask{}, false
}

func (s *Service) sectorByID(id uuid.UUID) (domain.Sector, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sec := range s.snapshot.Sectors {
		if sec.ID == id {
			return sec, true
		}
	}
	return domain.Sector{}, false
}

func (s *Service) projectByID(id uuid.UUID) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.snapshot.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

func (s *Service) userByID(id uuid.UUID) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.snapshot.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// sectorNameForProject resolves the denormalized sector display name stamped
// onto tasks. Unknown projects yield an empty name rather than an error.
func (s *Service) sectorNameForProject(projectID uuid.UUID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.snapshot.Projects {
		if p.ID == projectID {
			for _, sec := range s.snapshot.Sectors {
				if sec.ID == p.SectorID {
					return sec.Name
				}
			}
			return ""
		}
	}
	return ""
}
