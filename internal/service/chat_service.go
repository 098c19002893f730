package service

import (
	"context"
	"time"

	"research-chat-be/internal/dto"
	"research-chat-be/internal/entity"
	"research-chat-be/internal/pkg/logger"
	"research-chat-be/internal/repository/contract"
	"research-chat-be/pkg/citation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, notebookId uuid.UUID) ([]dto.GetAllSessionsResponse, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type chatService struct {
	chatRepo     contract.IChatRepository
	notebookRepo contract.INotebookRepository
	sessions     *SessionManager
	logger       logger.ILogger
}

func NewChatService(
	chatRepo contract.IChatRepository,
	notebookRepo contract.INotebookRepository,
	sessions *SessionManager,
	log logger.ILogger,
) IChatService {
	return &chatService{
		chatRepo:     chatRepo,
		notebookRepo: notebookRepo,
		sessions:     sessions,
		logger:       log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	notebook, err := s.notebookRepo.FindByID(ctx, req.NotebookId)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Notebook not found")
	}

	title := req.Title
	if title == "" {
		title = "New Chat"
	}

	session := entity.ChatSession{
		Id:         uuid.New(),
		NotebookId: req.NotebookId,
		Title:      title,
		CreatedAt:  time.Now(),
	}
	if err := s.chatRepo.CreateSession(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Id:    session.Id,
		Title: session.Title,
	}, nil
}

func (s *chatService) GetAllSessions(ctx context.Context, notebookId uuid.UUID) ([]dto.GetAllSessionsResponse, error) {
	sessions, err := s.chatRepo.FindSessionsByNotebook(ctx, notebookId)
	if err != nil {
		return nil, err
	}

	res := make([]dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, dto.GetAllSessionsResponse{
			Id:        session.Id,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		})
	}
	return res, nil
}

func (s *chatService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.chatRepo.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.sessions.Forget(id)
	return nil
}

func (s *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error) {
	messages, err := s.chatRepo.MessagesBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	res := make([]dto.GetChatHistoryResponse, 0, len(messages))
	for _, message := range messages {
		item := dto.GetChatHistoryResponse{
			Id:        message.Id,
			Role:      message.Role,
			Chat:      message.Content,
			CreatedAt: message.CreatedAt,
		}
		if message.Role == "assistant" {
			refs, err := s.chatRepo.ReferencesByMessage(ctx, message.Id)
			if err != nil {
				return nil, err
			}
			for _, ref := range refs {
				item.References = append(item.References, dto.ReferenceDTO{Kind: ref.Kind, EntityId: ref.EntityId})
			}
		}
		res = append(res, item)
	}
	return res, nil
}

// SendChat runs the full orchestrated send. On assembly or dispatch failure
// nothing is persisted: the user's message text stays client-side for retry,
// and the failure has already been surfaced through the notifier.
func (s *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	state, err := s.sessions.Runtime(ctx, req.ChatSessionId)
	if err != nil {
		return nil, err
	}

	reply, assembled, err := state.Orchestrator.Send(ctx, req.Chat)
	if err != nil {
		return nil, err
	}

	// Scan the raw reply once; the same reference list drives both the
	// rendered anchors and the persisted reference rows.
	refs := citation.Scan(reply).References
	rendered := citation.Render(reply, refs)

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: req.ChatSessionId,
		Role:          "user",
		Content:       req.Chat,
		CreatedAt:     now,
	}
	if err := s.chatRepo.CreateMessage(ctx, &userMessage); err != nil {
		return nil, err
	}

	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: req.ChatSessionId,
		Role:          "assistant",
		Content:       rendered,
		CreatedAt:     now,
	}
	if err := s.chatRepo.CreateMessage(ctx, &assistantMessage); err != nil {
		return nil, err
	}

	refDTOs := make([]dto.ReferenceDTO, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	rows := make([]entity.ChatMessageReference, 0, len(refs))
	for _, ref := range refs {
		key := string(ref.Kind) + ":" + ref.ID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, entity.ChatMessageReference{
			Id:            uuid.New(),
			ChatMessageId: assistantMessage.Id,
			Kind:          string(ref.Kind),
			EntityId:      ref.ID,
			CreatedAt:     now,
		})
		refDTOs = append(refDTOs, dto.ReferenceDTO{Kind: string(ref.Kind), EntityId: ref.ID})
	}
	if len(rows) > 0 {
		if err := s.chatRepo.CreateReferences(ctx, rows); err != nil {
			return nil, err
		}
	}

	s.logger.Info("ChatService", "Chat sent", map[string]interface{}{
		"session_id":  req.ChatSessionId.String(),
		"references":  len(rows),
		"ctx_tokens":  assembled.TokenCount,
		"ctx_sources": len(assembled.SourceEntries),
		"ctx_notes":   len(assembled.NoteEntries),
	})

	return &dto.SendChatResponse{
		ChatSessionId: req.ChatSessionId,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Content,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:         assistantMessage.Id,
			Chat:       assistantMessage.Content,
			Role:       assistantMessage.Role,
			CreatedAt:  assistantMessage.CreatedAt,
			References: refDTOs,
		},
		TokenCount: assembled.TokenCount,
		CharCount:  assembled.CharCount,
	}, nil
}
