package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/ai"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/iti-tech/taskboard-api/internal/store"
	"go.uber.org/zap"
)

// ErrChatBusy is returned when the turn lock is already held. The caller may
// resubmit; the coordinator never retries on its own.
var ErrChatBusy = errors.New("o assistente já está respondendo a outra pergunta")

// ApologyMessage is appended as the model's reply when the completion call
// fails. Completion failures are never surfaced as errors to the caller.
const ApologyMessage = "Desculpe, não consegui processar sua mensagem agora. Por favor, tente novamente em alguns instantes."

// Coordinator enforces single-writer semantics for AI conversation turns
// using the shared lock row as arbiter. At most one completion request is in
// flight at a time across every connected client.
type Coordinator struct {
	store       store.Store
	cache       *cache.Service
	client      ai.CompletionClient
	strictClaim bool
	logger      *zap.Logger
}

func NewCoordinator(st store.Store, c *cache.Service, client ai.CompletionClient, strictClaim bool, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		store:       st,
		cache:       c,
		client:      client,
		strictClaim: strictClaim,
		logger:      logger,
	}
}

// SendTurn runs one complete conversation turn: claim the lock, append the
// user's message, call the completion service, append the model's reply, and
// release the lock. Every call that claims the lock produces exactly one
// user message and exactly one model message, and always releases the lock
// on exit. Returns the model-authored reply.
func (c *Coordinator) SendTurn(ctx context.Context, userID uuid.UUID, userName, content string) (*domain.ChatMessage, error) {
	// optimistic precondition on the cached lock state; no store or
	// completion call is made when the lock is visibly held
	snap := c.cache.Snapshot()
	if snap.ChatLock.IsLocked {
		return nil, ErrChatBusy
	}

	if c.strictClaim {
		claimed, err := c.store.ClaimChatLock(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to claim chat lock: %w", err)
		}
		if !claimed {
			return nil, ErrChatBusy
		}
	} else {
		// unconditional claim: two concurrent claimants can both succeed,
		// each believing it holds the lock exclusively
		if err := c.store.SetChatLock(ctx, true, &userID); err != nil {
			return nil, fmt.Errorf("failed to claim chat lock: %w", err)
		}
	}
	defer c.releaseLock()
	c.cache.Refresh(ctx, cache.TableChatLock)

	// the context window is read before the new message lands so the prompt
	// carries prior history once and the new content exactly once
	history := snap.ChatMessages

	userMsg := &domain.ChatMessage{
		UserID:  &userID,
		Role:    domain.ChatRoleUser,
		Content: content,
	}
	if err := c.store.AppendChatMessage(ctx, userMsg); err != nil {
		return nil, &domain.WriteFailureError{Operation: "Erro ao enviar mensagem", Err: err}
	}
	c.cache.Refresh(ctx, cache.TableChatMessages)

	prompt := BuildPrompt(history, snap.Users, userName, content)

	reply, err := c.client.Complete(ctx, SystemInstruction, prompt)
	if err != nil {
		c.logger.Warn("completion call failed, replying with apology",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		reply = ApologyMessage
	}

	modelMsg := &domain.ChatMessage{
		Role:    domain.ChatRoleModel,
		Content: reply,
	}
	if err := c.store.AppendChatMessage(ctx, modelMsg); err != nil {
		return nil, &domain.WriteFailureError{Operation: "Erro ao registrar resposta do assistente", Err: err}
	}
	c.cache.Refresh(ctx, cache.TableChatMessages)

	return modelMsg, nil
}

// ResetLock force-releases the turn lock. A crash between claim and release
// strands the lock with no automatic recovery; this is the operator's manual
// intervention path.
func (c *Coordinator) ResetLock(ctx context.Context) error {
	if err := c.store.SetChatLock(ctx, false, nil); err != nil {
		return fmt.Errorf("failed to reset chat lock: %w", err)
	}
	c.logger.Info("chat lock force-released")
	c.cache.Refresh(ctx, cache.TableChatLock)
	return nil
}

// releaseLock always runs on a fresh context so an aborted request cannot
// strand the lock.
func (c *Coordinator) releaseLock() {
	ctx := context.Background()
	if err := c.store.SetChatLock(ctx, false, nil); err != nil {
		c.logger.Error("failed to release chat lock", zap.Error(err))
		return
	}
	c.cache.Refresh(ctx, cache.TableChatLock)
}
