package contract

import (
	"context"

	"research-chat-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IChatRepository interface {
	CreateSession(ctx context.Context, session *entity.ChatSession) error
	FindSessionByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error)
	FindSessionsByNotebook(ctx context.Context, notebookId uuid.UUID) ([]entity.ChatSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	UpdateSessionConfig(ctx context.Context, id uuid.UUID, cfg datatypes.JSON) error

	CreateMessage(ctx context.Context, message *entity.ChatMessage) error
	MessagesBySession(ctx context.Context, sessionId uuid.UUID) ([]entity.ChatMessage, error)
	CreateReferences(ctx context.Context, refs []entity.ChatMessageReference) error
	ReferencesByMessage(ctx context.Context, messageId uuid.UUID) ([]entity.ChatMessageReference, error)
}
