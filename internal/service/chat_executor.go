package service

import (
	"context"
	"fmt"
	"strings"

	"research-chat-be/internal/constant"
	"research-chat-be/internal/pkg/logger"
	"research-chat-be/internal/repository/contract"
	"research-chat-be/pkg/assembly"
	"research-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// promptExecutor renders the assembled context into the system prompt and
// sends the conversation to the model. It trusts the assembled entries as-is;
// anything unfit for the prompt was rejected during assembly.
type promptExecutor struct {
	chatRepo contract.IChatRepository
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewChatExecutor(chatRepo contract.IChatRepository, provider llm.LLMProvider, log logger.ILogger) assembly.ChatExecutor {
	return &promptExecutor{
		chatRepo: chatRepo,
		provider: provider,
		logger:   log,
	}
}

func (e *promptExecutor) Execute(ctx context.Context, sessionID string, message string, assembled *assembly.AssembledContext) (string, error) {
	sessionId, err := uuid.Parse(sessionID)
	if err != nil {
		return "", fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	history, err := e.chatRepo.MessagesBySession(ctx, sessionId)
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: buildSystemPrompt(assembled),
	})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})

	e.logger.Debug("ChatExecutor", "Dispatching chat", map[string]interface{}{
		"session_id":     sessionID,
		"history_len":    len(history),
		"context_tokens": assembled.TokenCount,
	})

	return e.provider.Chat(ctx, messages)
}

// buildSystemPrompt lays the context out under fixed headings. Each entry is
// labeled with the [kind:id] token the model is told to cite with.
func buildSystemPrompt(assembled *assembly.AssembledContext) string {
	var sb strings.Builder
	sb.WriteString(constant.ChatSystemPreamble)

	if len(assembled.SourceEntries) > 0 {
		sb.WriteString("\n\n## SOURCE CONTENT\n")
		for _, entry := range assembled.SourceEntries {
			sb.WriteString("\n[source:")
			sb.WriteString(entry.ID)
			sb.WriteString("]\n")
			sb.WriteString(entry.Content)
			sb.WriteString("\n")
		}
	}

	if len(assembled.NoteEntries) > 0 {
		sb.WriteString("\n\n## NOTES\n")
		for _, entry := range assembled.NoteEntries {
			sb.WriteString("\n[note:")
			sb.WriteString(entry.ID)
			sb.WriteString("]\n")
			sb.WriteString(entry.Content)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n\n## CONTEXT METADATA\n")
	fmt.Fprintf(&sb, "Sources: %d, Notes: %d, Estimated tokens: %d, Characters: %d\n",
		len(assembled.SourceEntries), len(assembled.NoteEntries), assembled.TokenCount, assembled.CharCount)

	return sb.String()
}
