package chat_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iti-tech/taskboard-api/internal/chat"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func userMsg(userID uuid.UUID, content string) domain.ChatMessage {
	return domain.ChatMessage{UserID: &userID, Role: domain.ChatRoleUser, Content: content}
}

func modelMsg(content string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.ChatRoleModel, Content: content}
}

func TestBuildPrompt(t *testing.T) {
	ana := domain.User{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Ana"}
	bruno := domain.User{BaseModel: domain.BaseModel{ID: uuid.New()}, Name: "Bruno"}
	users := []domain.User{ana, bruno}

	t.Run("empty history yields just the new message", func(t *testing.T) {
		prompt := chat.BuildPrompt(nil, users, "Ana", "qual o prazo?")
		assert.Equal(t, "Ana: qual o prazo?", prompt)
	})

	t.Run("history lines carry speaker names", func(t *testing.T) {
		history := []domain.ChatMessage{
			userMsg(ana.ID, "oi"),
			modelMsg("olá, como posso ajudar?"),
			userMsg(bruno.ID, "qual o status do projeto?"),
		}

		prompt := chat.BuildPrompt(history, users, "Ana", "e o prazo?")
		expected := "Ana: oi\n" +
			"Gemini AI: olá, como posso ajudar?\n" +
			"Bruno: qual o status do projeto?\n" +
			"Ana: e o prazo?"
		assert.Equal(t, expected, prompt)
	})

	t.Run("window clips to the most recent messages", func(t *testing.T) {
		var history []domain.ChatMessage
		for i := 0; i < 15; i++ {
			history = append(history, userMsg(ana.ID, fmt.Sprintf("mensagem %d", i)))
		}

		prompt := chat.BuildPrompt(history, users, "Ana", "nova")
		lines := strings.Split(prompt, "\n")

		assert.Len(t, lines, chat.ContextWindowSize+1)
		assert.Equal(t, "Ana: mensagem 5", lines[0])
		assert.Equal(t, "Ana: mensagem 14", lines[chat.ContextWindowSize-1])
		assert.Equal(t, "Ana: nova", lines[chat.ContextWindowSize])
	})

	t.Run("unknown speakers fall back to a generic name", func(t *testing.T) {
		ghost := uuid.New()
		history := []domain.ChatMessage{
			userMsg(ghost, "quem sou eu?"),
			{Role: domain.ChatRoleUser, Content: "sem autor"},
		}

		prompt := chat.BuildPrompt(history, users, "Ana", "nova")
		assert.Contains(t, prompt, "Usuário: quem sou eu?")
		assert.Contains(t, prompt, "Usuário: sem autor")
	})

	t.Run("no trailing newline", func(t *testing.T) {
		prompt := chat.BuildPrompt([]domain.ChatMessage{modelMsg("oi")}, users, "Ana", "nova")
		assert.False(t, strings.HasSuffix(prompt, "\n"))
	})
}
