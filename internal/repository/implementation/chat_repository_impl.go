package implementation

import (
	"context"
	"errors"
	"time"

	"research-chat-be/internal/entity"
	"research-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) contract.IChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateSession(ctx context.Context, session *entity.ChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *chatRepository) FindSessionByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	var session entity.ChatSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *chatRepository) FindSessionsByNotebook(ctx context.Context, notebookId uuid.UUID) ([]entity.ChatSession, error) {
	var sessions []entity.ChatSession
	err := r.db.WithContext(ctx).
		Where("notebook_id = ?", notebookId).
		Order("updated_at DESC NULLS LAST, created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *chatRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ChatSession{}, "id = ?", id).Error
}

func (r *chatRepository) UpdateSessionConfig(ctx context.Context, id uuid.UUID, cfg datatypes.JSON) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.ChatSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"context_config": cfg,
			"updated_at":     &now,
		}).Error
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) MessagesBySession(ctx context.Context, sessionId uuid.UUID) ([]entity.ChatMessage, error) {
	var messages []entity.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_session_id = ?", sessionId).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *chatRepository) CreateReferences(ctx context.Context, refs []entity.ChatMessageReference) error {
	if len(refs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&refs).Error
}

func (r *chatRepository) ReferencesByMessage(ctx context.Context, messageId uuid.UUID) ([]entity.ChatMessageReference, error) {
	var refs []entity.ChatMessageReference
	err := r.db.WithContext(ctx).
		Where("chat_message_id = ?", messageId).
		Order("created_at ASC").
		Find(&refs).Error
	return refs, err
}
