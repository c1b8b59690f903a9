package chat

import (
	"strings"

	"github.com/iti-tech/taskboard-api/internal/domain"
)

// ContextWindowSize bounds how much conversation history is replayed to the
// model on each turn.
const ContextWindowSize = 10

// ModelDisplayName is how prior model turns are labeled inside the prompt
const ModelDisplayName = "Gemini AI"

const fallbackSpeakerName = "Usuário"

// SystemInstruction is the fixed role description sent with every turn
const SystemInstruction = "Você é o assistente de IA do painel de tarefas da equipe. " +
	"Ajude os colaboradores com dúvidas sobre tarefas, projetos, prazos e organização do trabalho. " +
	"Responda sempre em português, de forma clara, objetiva e cordial."

// BuildPrompt assembles the bounded context window: the most recent
// ContextWindowSize history messages, one line per message prefixed with the
// speaker's display name, followed by a final line carrying the current
// speaker's new content.
func BuildPrompt(history []domain.ChatMessage, users []domain.User, senderName, content string) string {
	if len(history) > ContextWindowSize {
		history = history[len(history)-ContextWindowSize:]
	}

	var b strings.Builder
	for _, msg := range history {
		b.WriteString(speakerName(msg, users))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString(senderName)
	b.WriteString(": ")
	b.WriteString(content)
	return b.String()
}

func speakerName(msg domain.ChatMessage, users []domain.User) string {
	if msg.Role == domain.ChatRoleModel {
		return ModelDisplayName
	}
	if msg.UserID != nil {
		for _, u := range users {
			if u.ID == *msg.UserID {
				return u.Name
			}
		}
	}
	return fallbackSpeakerName
}
