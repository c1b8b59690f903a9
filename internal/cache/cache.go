package cache

import (
	"context"
	"sync"

	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/iti-tech/taskboard-api/internal/realtime"
	"github.com/iti-tech/taskboard-api/internal/store"
	"go.uber.org/zap"
)

// Table names as published on the change feed. These match the gorm table
// names and the pg_notify trigger payloads.
const (
	TableTasks        = "tasks"
	TableBoardTasks   = "board_tasks"
	TableSectors      = "sectors"
	TableProjects     = "projects"
	TableUsers        = "users"
	TableActivityLogs = "activity_logs"
	TableChatMessages = "chat_messages"
	TableChatLock     = "chat_turn_locks"
	TableSettings     = "system_settings"
)

var allTables = []string{
	TableTasks, TableBoardTasks, TableSectors, TableProjects, TableUsers,
	TableActivityLogs, TableChatMessages, TableChatLock, TableSettings,
}

// Snapshot is one consistent view of every cached collection. Slices are
// shared with the cache and must be treated as read-only.
type Snapshot struct {
	Ready        bool                  `json:"ready"`
	Degraded     bool                  `json:"degraded"`
	Tasks        []domain.Task         `json:"tasks"`
	BoardTasks   []domain.BoardTask    `json:"boardTasks"`
	Sectors      []domain.Sector       `json:"sectors"`
	Projects     []domain.Project      `json:"projects"`
	Users        []domain.User         `json:"users"`
	ActivityLogs []domain.ActivityLog  `json:"activityLogs"`
	ChatMessages []domain.ChatMessage  `json:"chatMessages"`
	ChatLock     domain.ChatTurnLock   `json:"chatLock"`
	Settings     domain.SystemSettings `json:"settings"`
}

// Listener receives the full snapshot after every refresh. Delivery order
// across listeners is registration order.
type Listener func(Snapshot)

// Service mirrors the remote collections in memory. Reads are synchronous
// snapshot reads; every mutation writes through the store, re-fetches the
// affected collections wholesale, and notifies subscribers.
type Service struct {
	store   store.Store
	logger  *zap.Logger
	logKeep int

	mu        sync.RWMutex
	ready     bool
	stale     map[string]bool
	snapshot  Snapshot
	listeners []subscriber
	nextSubID int

	initMu sync.Mutex
}

type subscriber struct {
	id int
	fn Listener
}

func NewService(st store.Store, logKeep int, logger *zap.Logger) *Service {
	return &Service{
		store:   st,
		logger:  logger,
		logKeep: logKeep,
		stale:   make(map[string]bool),
	}
}

// Initialize populates every collection and marks the cache ready. It is
// idempotent: once the cache is ready, further calls return immediately, and
// concurrent callers serialize so exactly one performs the fetches. A failed
// fetch leaves that collection at its previous value and flags the snapshot
// as degraded instead of failing initialization.
func (s *Service) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if ready {
		return nil
	}

	var wg sync.WaitGroup
	for _, table := range allTables {
		wg.Add(1)
		go func(table string) {
			defer wg.Done()
			s.refreshTable(ctx, table)
		}(table)
	}
	wg.Wait()

	s.mu.Lock()
	s.ready = true
	s.snapshot.Ready = true
	s.mu.Unlock()

	s.notify()
	return ctx.Err()
}

// Subscribe registers a listener and returns its unsubscribe function. A
// listener registered after the cache is ready is invoked once immediately,
// so late subscribers never observe stale-forever state.
func (s *Service) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscriber{id: id, fn: fn})
	ready := s.ready
	snap := s.snapshot
	s.mu.Unlock()

	if ready {
		fn(snap)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Logout clears every collection and resets the ready flag. The subscriber
// list is preserved; listeners observe the now-empty state through one final
// notification.
func (s *Service) Logout() {
	s.mu.Lock()
	s.ready = false
	s.stale = make(map[string]bool)
	s.snapshot = Snapshot{}
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns the current state of every collection
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Service) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Degraded
}

// Refresh re-fetches the named tables (all of them when none are named) and
// notifies subscribers once.
func (s *Service) Refresh(ctx context.Context, tables ...string) {
	if len(tables) == 0 {
		tables = allTables
	}
	for _, table := range tables {
		s.refreshTable(ctx, table)
	}
	s.notify()
}

// Run consumes the change feed until ctx is cancelled, refreshing the table
// named in each notification. An empty payload means the feed reconnected
// and anything may have been missed, so everything is re-fetched.
func (s *Service) Run(ctx context.Context, feed realtime.ChangeFeed) {
	for {
		select {
		case <-ctx.Done():
			return
		case table, ok := <-feed.Changes():
			if !ok {
				return
			}
			if table == "" {
				s.Refresh(ctx)
			} else {
				s.Refresh(ctx, table)
			}
		}
	}
}

func (s *Service) refreshTable(ctx context.Context, table string) {
	var err error
	var apply func()

	switch table {
	case TableTasks:
		var tasks []domain.Task
		if tasks, err = s.store.FetchTasks(ctx); err == nil {
			apply = func() { s.snapshot.Tasks = tasks }
		}
	case TableBoardTasks:
		var boardTasks []domain.BoardTask
		if boardTasks, err = s.store.FetchBoardTasks(ctx); err == nil {
			apply = func() { s.snapshot.BoardTasks = boardTasks }
		}
	case TableSectors:
		var sectors []domain.Sector
		if sectors, err = s.store.FetchSectors(ctx); err == nil {
			apply = func() { s.snapshot.Sectors = sectors }
		}
	case TableProjects:
		var projects []domain.Project
		if projects, err = s.store.FetchProjects(ctx); err == nil {
			apply = func() { s.snapshot.Projects = projects }
		}
	case TableUsers:
		var users []domain.User
		if users, err = s.store.FetchUsers(ctx); err == nil {
			apply = func() { s.snapshot.Users = users }
		}
	case TableActivityLogs:
		var logs []domain.ActivityLog
		if logs, err = s.store.FetchActivityLogs(ctx, s.logKeep); err == nil {
			apply = func() { s.snapshot.ActivityLogs = logs }
		}
	case TableChatMessages:
		var messages []domain.ChatMessage
		if messages, err = s.store.FetchChatMessages(ctx); err == nil {
			apply = func() { s.snapshot.ChatMessages = messages }
		}
	case TableChatLock:
		var lock *domain.ChatTurnLock
		if lock, err = s.store.GetChatLock(ctx); err == nil {
			apply = func() { s.snapshot.ChatLock = *lock }
		}
	case TableSettings:
		var settings *domain.SystemSettings
		if settings, err = s.store.FetchSettings(ctx); err == nil {
			apply = func() { s.snapshot.Settings = *settings }
		}
	default:
		s.logger.Debug("ignoring change notification for unknown table", zap.String("table", table))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// keep the previous value; the snapshot is stale for this table
		s.stale[table] = true
		s.snapshot.Degraded = true
		s.logger.Warn("failed to refresh collection",
			zap.String("table", table),
			zap.Error(err))
		return
	}
	apply()
	delete(s.stale, table)
	s.snapshot.Degraded = len(s.stale) > 0
}

// notify delivers the current snapshot to every listener in registration
// order. Listeners run outside the cache lock so they may call getters.
func (s *Service) notify() {
	s.mu.RLock()
	snap := s.snapshot
	listeners := make([]subscriber, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, sub := range listeners {
		sub.fn(snap)
	}
}
