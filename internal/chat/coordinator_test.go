package chat_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/chat"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory store recording chat writes and lock transitions
type fakeStore struct {
	mu sync.Mutex

	users    []domain.User
	messages []domain.ChatMessage
	lock     domain.ChatTurnLock

	appendErr   error
	claimResult bool
	claimErr    error
	setLockErr  error

	appendCalls int
	claimCalls  int
	lockHistory []bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lock:        domain.ChatTurnLock{ID: domain.ChatTurnLockID},
		claimResult: true,
	}
}

func (f *fakeStore) FetchTasks(ctx context.Context) ([]domain.Task, error)           { return nil, nil }
func (f *fakeStore) FetchBoardTasks(ctx context.Context) ([]domain.BoardTask, error) { return nil, nil }
func (f *fakeStore) FetchSectors(ctx context.Context) ([]domain.Sector, error)       { return nil, nil }
func (f *fakeStore) FetchProjects(ctx context.Context) ([]domain.Project, error)     { return nil, nil }

func (f *fakeStore) FetchUsers(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, nil
}

func (f *fakeStore) FetchActivityLogs(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	return nil, nil
}

func (f *fakeStore) FetchChatMessages(ctx context.Context) ([]domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ChatMessage, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func (f *fakeStore) FetchSettings(ctx context.Context) (*domain.SystemSettings, error) {
	return &domain.SystemSettings{ID: domain.SystemSettingsID}, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, task *domain.Task) error        { return nil }
func (f *fakeStore) UpdateTask(ctx context.Context, task *domain.Task) error        { return nil }
func (f *fakeStore) DeleteTask(ctx context.Context, id uuid.UUID) error             { return nil }
func (f *fakeStore) CreateBoardTask(ctx context.Context, t *domain.BoardTask) error { return nil }
func (f *fakeStore) UpdateBoardTask(ctx context.Context, t *domain.BoardTask) error { return nil }
func (f *fakeStore) DeleteBoardTask(ctx context.Context, id uuid.UUID) error        { return nil }
func (f *fakeStore) CreateSector(ctx context.Context, s *domain.Sector) error       { return nil }
func (f *fakeStore) UpdateSector(ctx context.Context, s *domain.Sector) error       { return nil }
func (f *fakeStore) DeleteSector(ctx context.Context, id uuid.UUID) error           { return nil }
func (f *fakeStore) CreateProject(ctx context.Context, p *domain.Project) error     { return nil }
func (f *fakeStore) UpdateProject(ctx context.Context, p *domain.Project) error     { return nil }
func (f *fakeStore) DeleteProject(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakeStore) CreateUser(ctx context.Context, u *domain.User) error           { return nil }
func (f *fakeStore) UpdateUser(ctx context.Context, u *domain.User) error           { return nil }
func (f *fakeStore) DeleteUser(ctx context.Context, id uuid.UUID) error             { return nil }

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) AppendActivityLog(ctx context.Context, e *domain.ActivityLog) error { return nil }
func (f *fakeStore) PruneActivityLogs(ctx context.Context, keep int) (int64, error)     { return 0, nil }

func (f *fakeStore) AppendChatMessage(ctx context.Context, msg *domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if f.appendErr != nil {
		return f.appendErr
	}
	msg.ID = uuid.New()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeStore) RecentChatMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	return f.FetchChatMessages(ctx)
}

func (f *fakeStore) GetChatLock(ctx context.Context) (*domain.ChatTurnLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock := f.lock
	return &lock, nil
}

func (f *fakeStore) SetChatLock(ctx context.Context, locked bool, userID *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setLockErr != nil {
		return f.setLockErr
	}
	f.lock.IsLocked = locked
	f.lock.LockedByUserID = userID
	f.lockHistory = append(f.lockHistory, locked)
	return nil
}

func (f *fakeStore) ClaimChatLock(ctx context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimCalls++
	if f.claimErr != nil {
		return false, f.claimErr
	}
	if f.claimResult {
		f.lock.IsLocked = true
		f.lock.LockedByUserID = &userID
		f.lockHistory = append(f.lockHistory, true)
	}
	return f.claimResult, nil
}

func (f *fakeStore) UpdateSettings(ctx context.Context, s *domain.SystemSettings) error { return nil }

// fakeCompletion is a canned CompletionClient
type fakeCompletion struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeCompletion) Complete(ctx context.Context, systemInstruction, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func newTestCoordinator(t *testing.T, st *fakeStore, client *fakeCompletion, strict bool) *chat.Coordinator {
	cacheService := cache.NewService(st, 50, zap.NewNop())
	require.NoError(t, cacheService.Initialize(context.Background()))
	return chat.NewCoordinator(st, cacheService, client, strict, zap.NewNop())
}

func TestCoordinator_SendTurn(t *testing.T) {
	userID := uuid.New()

	t.Run("successful turn appends both messages and releases the lock", func(t *testing.T) {
		st := newFakeStore()
		client := &fakeCompletion{reply: "resposta do modelo"}
		coord := newTestCoordinator(t, st, client, false)

		reply, err := coord.SendTurn(context.Background(), userID, "Ana", "qual o prazo?")
		require.NoError(t, err)
		assert.Equal(t, domain.ChatRoleModel, reply.Role)
		assert.Equal(t, "resposta do modelo", reply.Content)
		assert.Nil(t, reply.UserID)

		require.Len(t, st.messages, 2)
		assert.Equal(t, domain.ChatRoleUser, st.messages[0].Role)
		assert.Equal(t, "qual o prazo?", st.messages[0].Content)
		require.NotNil(t, st.messages[0].UserID)
		assert.Equal(t, userID, *st.messages[0].UserID)
		assert.Equal(t, domain.ChatRoleModel, st.messages[1].Role)

		assert.False(t, st.lock.IsLocked, "lock must be released after the turn")
		// the lock was claimed then released
		assert.Equal(t, []bool{true, false}, st.lockHistory)
	})

	t.Run("completion failure yields an apology, not an error", func(t *testing.T) {
		st := newFakeStore()
		client := &fakeCompletion{err: errors.New("upstream down")}
		coord := newTestCoordinator(t, st, client, false)

		reply, err := coord.SendTurn(context.Background(), userID, "Ana", "oi")
		require.NoError(t, err)
		assert.Equal(t, chat.ApologyMessage, reply.Content)

		require.Len(t, st.messages, 2)
		assert.Equal(t, chat.ApologyMessage, st.messages[1].Content)
		assert.False(t, st.lock.IsLocked)
	})

	t.Run("busy lock rejects the turn without any writes", func(t *testing.T) {
		st := newFakeStore()
		holder := uuid.New()
		st.lock.IsLocked = true
		st.lock.LockedByUserID = &holder
		client := &fakeCompletion{reply: "nunca usado"}
		coord := newTestCoordinator(t, st, client, false)

		_, err := coord.SendTurn(context.Background(), userID, "Ana", "oi")
		assert.ErrorIs(t, err, chat.ErrChatBusy)
		assert.Zero(t, st.appendCalls)
		assert.Zero(t, client.calls)
		assert.True(t, st.lock.IsLocked, "a rejected turn must not touch the lock")
	})

	t.Run("prompt carries prior history and the new content once", func(t *testing.T) {
		st := newFakeStore()
		ana := domain.User{BaseModel: domain.BaseModel{ID: userID}, Name: "Ana"}
		st.users = []domain.User{ana}
		st.messages = []domain.ChatMessage{
			{ID: uuid.New(), UserID: &userID, Role: domain.ChatRoleUser, Content: "primeira"},
			{ID: uuid.New(), Role: domain.ChatRoleModel, Content: "resposta"},
		}
		client := &fakeCompletion{reply: "ok"}
		coord := newTestCoordinator(t, st, client, false)

		_, err := coord.SendTurn(context.Background(), userID, "Ana", "segunda")
		require.NoError(t, err)

		expected := "Ana: primeira\nGemini AI: resposta\nAna: segunda"
		assert.Equal(t, expected, client.prompt)
	})

	t.Run("user message write failure aborts the turn and releases the lock", func(t *testing.T) {
		st := newFakeStore()
		st.appendErr = errors.New("disk full")
		client := &fakeCompletion{reply: "nunca usado"}
		coord := newTestCoordinator(t, st, client, false)

		_, err := coord.SendTurn(context.Background(), userID, "Ana", "oi")
		require.Error(t, err)

		var writeFailure *domain.WriteFailureError
		assert.ErrorAs(t, err, &writeFailure)
		assert.Zero(t, client.calls)
		assert.False(t, st.lock.IsLocked)
	})

	t.Run("strict claim defers to the store arbiter", func(t *testing.T) {
		st := newFakeStore()
		st.claimResult = false
		client := &fakeCompletion{reply: "nunca usado"}
		coord := newTestCoordinator(t, st, client, true)

		_, err := coord.SendTurn(context.Background(), userID, "Ana", "oi")
		assert.ErrorIs(t, err, chat.ErrChatBusy)
		assert.Equal(t, 1, st.claimCalls)
		assert.Zero(t, st.appendCalls)
	})

	t.Run("strict claim success runs the full turn", func(t *testing.T) {
		st := newFakeStore()
		client := &fakeCompletion{reply: "ok"}
		coord := newTestCoordinator(t, st, client, true)

		_, err := coord.SendTurn(context.Background(), userID, "Ana", "oi")
		require.NoError(t, err)
		assert.Equal(t, 1, st.claimCalls)
		require.Len(t, st.messages, 2)
		assert.False(t, st.lock.IsLocked)
	})
}

func TestCoordinator_ResetLock(t *testing.T) {
	st := newFakeStore()
	holder := uuid.New()
	st.lock.IsLocked = true
	st.lock.LockedByUserID = &holder
	coord := newTestCoordinator(t, st, &fakeCompletion{}, false)

	require.NoError(t, coord.ResetLock(context.Background()))
	assert.False(t, st.lock.IsLocked)
	assert.Nil(t, st.lock.LockedByUserID)
}
