package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/iti-tech/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

// Store is the persistence surface consumed by the cache, the chat turn
// coordinator, and the HTTP handlers. The cache is its primary caller: reads
// are bulk snapshot fetches, writes are row-level and followed by a cache
// refresh.
type Store interface {
	FetchTasks(ctx context.Context) ([]domain.Task, error)
	FetchBoardTasks(ctx context.Context) ([]domain.BoardTask, error)
	FetchSectors(ctx context.Context) ([]domain.Sector, error)
	FetchProjects(ctx context.Context) ([]domain.Project, error)
	FetchUsers(ctx context.Context) ([]domain.User, error)
	FetchActivityLogs(ctx context.Context, limit int) ([]domain.ActivityLog, error)
	FetchChatMessages(ctx context.Context) ([]domain.ChatMessage, error)
	FetchSettings(ctx context.Context) (*domain.SystemSettings, error)

	CreateTask(ctx context.Context, task *domain.Task) error
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error

	CreateBoardTask(ctx context.Context, task *domain.BoardTask) error
	UpdateBoardTask(ctx context.Context, task *domain.BoardTask) error
	DeleteBoardTask(ctx context.Context, id uuid.UUID) error

	CreateSector(ctx context.Context, sector *domain.Sector) error
	UpdateSector(ctx context.Context, sector *domain.Sector) error
	DeleteSector(ctx context.Context, id uuid.UUID) error

	CreateProject(ctx context.Context, project *domain.Project) error
	UpdateProject(ctx context.Context, project *domain.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	AppendActivityLog(ctx context.Context, entry *domain.ActivityLog) error
	PruneActivityLogs(ctx context.Context, keep int) (int64, error)

	AppendChatMessage(ctx context.Context, msg *domain.ChatMessage) error
	RecentChatMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error)
	GetChatLock(ctx context.Context) (*domain.ChatTurnLock, error)
	SetChatLock(ctx context.Context, locked bool, userID *uuid.UUID) error
	ClaimChatLock(ctx context.Context, userID uuid.UUID) (bool, error)

	UpdateSettings(ctx context.Context, settings *domain.SystemSettings) error
}

// SQLStore implements Store over the gorm-backed repositories
type SQLStore struct {
	tasks    *repository.TaskRepository
	board    *repository.BoardRepository
	sectors  *repository.SectorRepository
	projects *repository.ProjectRepository
	users    *repository.UserRepository
	logs     *repository.ActivityLogRepository
	chat     *repository.ChatRepository
	settings *repository.SettingsRepository
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{
		tasks:    repository.NewTaskRepository(db),
		board:    repository.NewBoardRepository(db),
		sectors:  repository.NewSectorRepository(db),
		projects: repository.NewProjectRepository(db),
		users:    repository.NewUserRepository(db),
		logs:     repository.NewActivityLogRepository(db),
		chat:     repository.NewChatRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
}

func (s *SQLStore) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx)
}

func (s *SQLStore) FetchBoardTasks(ctx context.Context) ([]domain.BoardTask, error) {
	return s.board.List(ctx)
}

func (s *SQLStore) FetchSectors(ctx context.Context) ([]domain.Sector, error) {
	return s.sectors.List(ctx)
}

func (s *SQLStore) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *SQLStore) FetchUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *SQLStore) FetchActivityLogs(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	return s.logs.ListRecent(ctx, limit)
}

func (s *SQLStore) FetchChatMessages(ctx context.Context) ([]domain.ChatMessage, error) {
	return s.chat.ListMessages(ctx)
}

func (s *SQLStore) FetchSettings(ctx context.Context) (*domain.SystemSettings, error) {
	return s.settings.Get(ctx)
}

func (s *SQLStore) CreateTask(ctx context.Context, task *domain.Task) error {
	return s.tasks.Create(ctx, task)
}

func (s *SQLStore) UpdateTask(ctx context.Context, task *domain.Task) error {
	return s.tasks.Update(ctx, task)
}

func (s *SQLStore) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.tasks.Delete(ctx, id)
}

func (s *SQLStore) CreateBoardTask(ctx context.Context, task *domain.BoardTask) error {
	return s.board.Create(ctx, task)
}

func (s *SQLStore) UpdateBoardTask(ctx context.Context, task *domain.BoardTask) error {
	return s.board.Update(ctx, task)
}

func (s *SQLStore) DeleteBoardTask(ctx context.Context, id uuid.UUID) error {
	return s.board.Delete(ctx, id)
}

func (s *SQLStore) CreateSector(ctx context.Context, sector *domain.Sector) error {
	return s.sectors.Create(ctx, sector)
}

func (s *SQLStore) UpdateSector(ctx context.Context, sector *domain.Sector) error {
	return s.sectors.Update(ctx, sector)
}

// DeleteSector refuses to remove a sector that still has projects. The check
// runs before the delete so the caller gets a conflict error naming the
// dependent entity instead of a bare constraint violation.
func (s *SQLStore) DeleteSector(ctx context.Context, id uuid.UUID) error {
	count, err := s.projects.CountBySector(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check sector references: %w", err)
	}
	if count > 0 {
		return &domain.ReferentialConflictError{Entity: "setor", Dependent: "projetos"}
	}
	return s.sectors.Delete(ctx, id)
}

func (s *SQLStore) CreateProject(ctx context.Context, project *domain.Project) error {
	return s.projects.Create(ctx, project)
}

func (s *SQLStore) UpdateProject(ctx context.Context, project *domain.Project) error {
	return s.projects.Update(ctx, project)
}

// DeleteProject refuses to remove a project that still has tasks
func (s *SQLStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	count, err := s.tasks.CountByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check project references: %w", err)
	}
	if count > 0 {
		return &domain.ReferentialConflictError{Entity: "projeto", Dependent: "tarefas"}
	}
	return s.projects.Delete(ctx, id)
}

func (s *SQLStore) CreateUser(ctx context.Context, user *domain.User) error {
	return s.users.Create(ctx, user)
}

func (s *SQLStore) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.users.Update(ctx, user)
}

// DeleteUser refuses to remove a collaborator that still has tasks
func (s *SQLStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	count, err := s.tasks.CountByCollaborator(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check collaborator references: %w", err)
	}
	if count > 0 {
		return &domain.ReferentialConflictError{Entity: "colaborador", Dependent: "tarefas"}
	}
	return s.users.Delete(ctx, id)
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *SQLStore) AppendActivityLog(ctx context.Context, entry *domain.ActivityLog) error {
	return s.logs.Append(ctx, entry)
}

func (s *SQLStore) PruneActivityLogs(ctx context.Context, keep int) (int64, error) {
	return s.logs.Prune(ctx, keep)
}

func (s *SQLStore) AppendChatMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return s.chat.AppendMessage(ctx, msg)
}

func (s *SQLStore) RecentChatMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	return s.chat.ListRecentMessages(ctx, limit)
}

func (s *SQLStore) GetChatLock(ctx context.Context) (*domain.ChatTurnLock, error) {
	return s.chat.GetLock(ctx)
}

func (s *SQLStore) SetChatLock(ctx context.Context, locked bool, userID *uuid.UUID) error {
	return s.chat.SetLock(ctx, locked, userID)
}

func (s *SQLStore) ClaimChatLock(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.chat.ClaimIfUnlocked(ctx, userID)
}

func (s *SQLStore) UpdateSettings(ctx context.Context, settings *domain.SystemSettings) error {
	return s.settings.Update(ctx, settings)
}
