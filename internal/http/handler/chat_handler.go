package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iti-tech/taskboard-api/internal/auth"
	"github.com/iti-tech/taskboard-api/internal/cache"
	"github.com/iti-tech/taskboard-api/internal/chat"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"go.uber.org/zap"
)

// ChatHandler handles HTTP requests for the AI conversation
type ChatHandler struct {
	cache       *cache.Service
	coordinator *chat.Coordinator
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(c *cache.Service, coordinator *chat.Coordinator, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{cache: c, coordinator: coordinator, logger: logger}
}

// ListMessages godoc
// @Summary List chat messages
// @Tags Chat
// @Produce json
// @Success 200 {array} domain.ChatMessage
// @Security BearerAuth
// @Router /chat/messages [get]
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot().ChatMessages)
}

// GetLock godoc
// @Summary Chat turn lock state
// @Tags Chat
// @Produce json
// @Success 200 {object} domain.ChatTurnLock
// @Security BearerAuth
// @Router /chat/lock [get]
func (h *ChatHandler) GetLock(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Snapshot().ChatLock)
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Runs one complete conversation turn. Returns 409 with type "busy" when another turn is in flight.
// @Tags Chat
// @Accept json
// @Produce json
// @Param message body domain.SendChatMessageRequest true "Message to send"
// @Success 200 {object} domain.ChatMessage
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /chat/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.SendChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	reply, err := h.coordinator.SendTurn(r.Context(), userCtx.UserID, userCtx.DisplayName, req.Content)
	if err != nil {
		if err != chat.ErrChatBusy {
			h.logger.Error("chat turn failed", zap.Error(err), zap.String("user_id", userCtx.UserID.String()))
		}
		respondActionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reply)
}

// ResetLock godoc
// @Summary Force-release the chat turn lock
// @Description Admin-only manual intervention for a lock stranded by a crashed holder
// @Tags Chat
// @Success 204
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /chat/lock/reset [post]
func (h *ChatHandler) ResetLock(w http.ResponseWriter, r *http.Request) {
	if err := h.coordinator.ResetLock(r.Context()); err != nil {
		h.logger.Error("failed to reset chat lock", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to reset chat lock")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
